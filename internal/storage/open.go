package storage

import (
	"fmt"
	"strings"

	"github.com/zot/dock/internal/config"
)

// Open creates the backend selected by cfg.Type.
func Open(cfg config.StorageConfig) (Backend, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "file":
		return NewFileStorage(cfg.Dir)
	case "sqlite":
		return NewSQLiteStorage(cfg.Path)
	case "postgresql", "postgres":
		if cfg.URL == "" {
			return nil, fmt.Errorf("storage type %s requires a url", cfg.Type)
		}
		return NewPostgresStorage(cfg.URL)
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}
