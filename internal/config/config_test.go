package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dock.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "xml", cfg.Layout.Format)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce.Duration())
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, `
[storage]
type = "sqlite"
path = "/var/lib/dock/layouts.db"

[layout]
format = "json"
script = "resolve.lua"

[watch]
debounce = "1s"

[logging]
level = "debug"
file = "dock.log"
compress = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/var/lib/dock/layouts.db", cfg.Storage.Path)
	assert.Equal(t, "layouts", cfg.Storage.Dir)
	assert.Equal(t, "json", cfg.Layout.Format)
	assert.Equal(t, "resolve.lua", cfg.Layout.Script)
	assert.Equal(t, time.Second, cfg.Watch.Debounce.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Compress)
	assert.Equal(t, 10, cfg.Logging.MaxSize)
}

func TestLoadBadDuration(t *testing.T) {
	path := writeFile(t, "[watch]\ndebounce = \"soon\"\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestPrecedence(t *testing.T) {
	path := writeFile(t, "[storage]\ntype = \"sqlite\"\n[layout]\nformat = \"json\"\n")
	t.Setenv("DOCK_STORAGE", "file")
	t.Setenv("DOCK_STORAGE_DIR", "/tmp/layouts")
	t.Setenv("DOCK_WATCH_DEBOUNCE", "50ms")
	t.Setenv("DOCK_VERBOSITY", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Type, "env beats file")
	assert.Equal(t, "json", cfg.Layout.Format, "file beats default")
	assert.Equal(t, "/tmp/layouts", cfg.Storage.Dir)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce.Duration())
	assert.Equal(t, 2, cfg.Verbosity())

	cfg.Apply(Overrides{Storage: "postgresql", StorageURL: "postgres://localhost/dock", Verbosity: 3})
	assert.Equal(t, "postgresql", cfg.Storage.Type, "flag beats env")
	assert.Equal(t, "postgres://localhost/dock", cfg.Storage.URL)
	assert.Equal(t, "json", cfg.Layout.Format, "empty override keeps value")
	assert.Equal(t, 3, cfg.Verbosity())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"postgres alias", func(c *Config) { c.Storage.Type = "postgres" }, true},
		{"bad storage", func(c *Config) { c.Storage.Type = "redis" }, false},
		{"bad format", func(c *Config) { c.Layout.Format = "yaml" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "text" }, false},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = Duration(-time.Second) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
