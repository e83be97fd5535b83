// Package cli implements the labelgraph command-line interface.
//
// # Commands
//
//   - write full|shorter: re-serialize a graph file in the full or shorter form
//   - consensus: print the consensus label of every node
//   - visualize: draw the consensus labelling as an SVG node-link diagram
//   - serve: run the HTTP API
//   - cache: manage the result cache
//   - config: show the effective configuration
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/labelgraph/config.toml (see
// [config.Load]); command-line flags override them.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelgraph/pkg/buildinfo"
	"github.com/matzehuels/labelgraph/pkg/cache"
	"github.com/matzehuels/labelgraph/pkg/config"
	"github.com/matzehuels/labelgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// unknownAuthor is written when no author can be determined.
	unknownAuthor = "unknown"

	// sqliteFile is the default database name of the sqlite cache backend.
	sqliteFile = "cache.db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "labelgraph writes labelled graphs and their consensus labels",
		Long: `labelgraph reads and writes labelled graphs in the .graph text format,
renumbers them into the compact shorter form, and collapses each node's labels
into a consensus label, optionally translating atomic numbers into element
symbols.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/labelgraph/config.toml)")

	// Register all subcommands
	root.AddCommand(c.writeCommand())
	root.AddCommand(c.consensusCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file before any command runs.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config path", "error", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.config.Cache.Prefix)
	}

	if noCache {
		return cache.NewNullCache(), keyer, nil
	}
	switch c.config.Cache.Backend {
	case config.BackendRedis:
		rc, err := cache.DialRedis(ctx, c.config.Cache.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, keyer, nil
	case config.BackendNone:
		return cache.NewNullCache(), keyer, nil
	case config.BackendSQLite:
		path, err := c.sqlitePath()
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, err
		}
		sc, err := cache.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return sc, keyer, nil
	default:
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("caching disabled", "error", err)
			return cache.NewNullCache(), keyer, nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, keyer, nil
	}
}

// baseOptions returns pipeline options from the config.
func (c *CLI) baseOptions() (pipeline.Options, error) {
	mode, err := c.config.CountMode()
	if err != nil {
		return pipeline.Options{}, err
	}
	ttl, err := c.config.CacheTTL()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Author:    c.author(),
		LabelSep:  c.config.LabelSep,
		OutputDir: c.config.OutputDir,
		Translate: c.config.Translate,
		Counting:  mode,
		TTL:       ttl,
	}, nil
}

// author returns the configured author, falling back to the account name.
func (c *CLI) author() string {
	if c.config.Author != "" {
		return c.config.Author
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return unknownAuthor
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/labelgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// sqlitePath returns the SQLite cache database path from the config, or
// cache.db in the cache directory.
func (c *CLI) sqlitePath() (string, error) {
	if c.config.Cache.SQLitePath != "" {
		return c.config.Cache.SQLitePath, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sqliteFile), nil
}
