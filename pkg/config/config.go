// Package config loads labelgraph settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/labelgraph/config.toml (falling back to
// ~/.config). A missing file is not an error; every field has a default:
//
//	author     = "jdoe"          # AUTHOR header line
//	label_sep  = ","             # joins node labels inside one field
//	output_dir = "graphs"        # where write commands put files
//	translate  = true            # translate atomic numbers in consensus
//	counting   = "source"        # or "translated"
//
//	[cache]
//	backend     = "file"          # file, sqlite, redis or none
//	redis_addr  = "localhost:6379"
//	sqlite_path = ""              # default <cache dir>/cache.db
//	ttl         = "24h"
//	prefix      = ""
//
//	[server]
//	addr       = ":8080"
//	rate_limit = 0                # requests per second, 0 = unlimited
//	burst      = 10
//
// The LABELGRAPH_AUTHOR environment variable overrides author.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/labelgraph/pkg/consensus"
	"github.com/matzehuels/labelgraph/pkg/errors"
	"github.com/matzehuels/labelgraph/pkg/graph"
)

const (
	// AppName is used for the config and cache directory names.
	AppName = "labelgraph"

	// FileName is the config file name.
	FileName = "config.toml"

	// EnvAuthor overrides the configured author.
	EnvAuthor = "LABELGRAPH_AUTHOR"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config holds all settings.
type Config struct {
	Author    string `toml:"author"`
	LabelSep  string `toml:"label_sep"`
	OutputDir string `toml:"output_dir"`
	Translate bool   `toml:"translate"`
	Counting  string `toml:"counting"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend    string `toml:"backend"`
	RedisAddr  string `toml:"redis_addr"`
	SQLitePath string `toml:"sqlite_path"`
	TTL        string `toml:"ttl"`
	Prefix     string `toml:"prefix"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LabelSep:  ",",
		OutputDir: ".",
		Translate: true,
		Counting:  consensus.CountSource.String(),
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       "24h",
		},
		Server: ServerConfig{Addr: ":8080", Burst: 10},
	}
}

// Path returns the config file path, honouring XDG_CONFIG_HOME.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// Load reads the config file at path on top of [Default]. A missing file
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
	}
	if v := os.Getenv(EnvAuthor); v != "" {
		cfg.Author = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := errors.ValidateSeparator(c.LabelSep, graph.MultIDSep); err != nil {
		return err
	}
	if _, err := c.CountMode(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config counting")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, sqlite, redis or none)", c.Cache.Backend)
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server rate_limit and burst must not be negative")
	}
	if _, err := c.CacheTTL(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config cache.ttl")
	}
	return nil
}

// CountMode returns the parsed consensus count mode.
func (c *Config) CountMode() (consensus.CountMode, error) {
	return consensus.ParseCountMode(c.Counting)
}

// CacheTTL returns the parsed cache TTL. An empty value returns 0, which
// the pipeline treats as its default TTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative ttl %s", d)
	}
	return d, nil
}
