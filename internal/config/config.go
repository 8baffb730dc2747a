// Package config handles configuration loading from TOML files, environment
// variables and command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read when no config file is named explicitly.
const DefaultFile = "dock.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCK_"

// Config holds all configuration settings.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Layout  LayoutConfig  `toml:"layout"`
	Watch   WatchConfig   `toml:"watch"`
	Logging LoggingConfig `toml:"logging"`
}

// StorageConfig holds storage-related settings.
type StorageConfig struct {
	Type string `toml:"type"` // "memory", "file", "sqlite", "postgresql"
	Path string `toml:"path"` // SQLite file path
	URL  string `toml:"url"`  // PostgreSQL connection URL
	Dir  string `toml:"dir"`  // layout directory for the file backend
}

// LayoutConfig holds layout persistence settings.
type LayoutConfig struct {
	Format string `toml:"format"` // "xml" or "json"
	Name   string `toml:"name"`   // layout name used when none is given
	Script string `toml:"script"` // Lua resolver script, optional
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `toml:"level"`  // "debug", "info", "warn", "error"
	Format     string `toml:"format"` // "console" or "json"
	Verbosity  int    `toml:"verbosity"`
	File       string `toml:"file"` // rotated log file, optional
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Type: "memory",
			Path: "dock.db",
			Dir:  "layouts",
		},
		Layout: LayoutConfig{
			Format: "xml",
			Name:   "default",
		},
		Watch: WatchConfig{
			Debounce: Duration(200 * time.Millisecond),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path and then the
// environment. An empty path reads DefaultFile when it exists; a named file
// must exist.
// Priority: CLI flags (see Apply) > env vars > TOML file > defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadTOML(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// loadTOML loads configuration from a TOML file.
func (c *Config) loadTOML(path string) error {
	_, err := toml.DecodeFile(path, c)
	return err
}

// ApplyEnv applies DOCK_* environment variable overrides.
func (c *Config) ApplyEnv() {
	str := func(name string, dst *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	str("STORAGE", &c.Storage.Type)
	str("STORAGE_PATH", &c.Storage.Path)
	str("STORAGE_URL", &c.Storage.URL)
	str("STORAGE_DIR", &c.Storage.Dir)
	str("FORMAT", &c.Layout.Format)
	str("LAYOUT", &c.Layout.Name)
	str("SCRIPT", &c.Layout.Script)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("LOG_FILE", &c.Logging.File)
	if v := os.Getenv(EnvPrefix + "WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Watch.Debounce = Duration(d)
		}
	}
	if v := os.Getenv(EnvPrefix + "VERBOSITY"); v != "" {
		if verbosity, err := strconv.Atoi(v); err == nil {
			c.Logging.Verbosity = verbosity
		}
	}
}

// Overrides carries command line values. Zero values leave the
// configuration unchanged.
type Overrides struct {
	Storage     string
	StoragePath string
	StorageURL  string
	StorageDir  string
	Format      string
	Script      string
	LogLevel    string
	Verbosity   int
}

// Apply applies command line overrides (highest priority).
func (c *Config) Apply(o Overrides) {
	set := func(v string, dst *string) {
		if v != "" {
			*dst = v
		}
	}
	set(o.Storage, &c.Storage.Type)
	set(o.StoragePath, &c.Storage.Path)
	set(o.StorageURL, &c.Storage.URL)
	set(o.StorageDir, &c.Storage.Dir)
	set(o.Format, &c.Layout.Format)
	set(o.Script, &c.Layout.Script)
	set(o.LogLevel, &c.Logging.Level)
	if o.Verbosity > 0 {
		c.Logging.Verbosity = o.Verbosity
	}
}

// Validate checks the values that have a closed set of choices.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Type) {
	case "memory", "file", "sqlite", "postgresql", "postgres":
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}
	switch strings.ToLower(c.Layout.Format) {
	case "xml", "json":
	default:
		return fmt.Errorf("invalid layout format %q", c.Layout.Format)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch debounce %s", c.Watch.Debounce)
	}
	return nil
}

// Verbosity returns the configured verbosity level.
func (c *Config) Verbosity() int {
	return c.Logging.Verbosity
}
