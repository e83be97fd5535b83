package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelgraph/pkg/cache"
	"github.com/matzehuels/labelgraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached consensus results and documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.config.Cache.Backend {
			case config.BackendRedis:
				printWarning("Redis entries expire on their own; only the local cache is cleared")
			case config.BackendSQLite:
				return c.clearSQLite(cmd.Context())
			}
			return clearFiles(cmd.Context())
		},
	}
}

func clearFiles(ctx context.Context) error {
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	count, err := fc.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("Cleared %d cached entries", count)
	printDetail("Directory: %s", dir)
	return nil
}

func (c *CLI) clearSQLite(ctx context.Context) error {
	path, err := c.sqlitePath()
	if err != nil {
		return fmt.Errorf("get cache path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	sc, err := cache.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer sc.Close()
	count, err := sc.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("Cleared %d cached entries", count)
	printDetail("Database: %s", path)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory (or database) path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cacheDir()
			if c.config.Cache.Backend == config.BackendSQLite {
				path, err = c.sqlitePath()
			}
			if err != nil {
				return fmt.Errorf("get cache path: %w", err)
			}
			fmt.Fprintln(stdout, path)
			return nil
		},
	}
}
