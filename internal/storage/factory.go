package storage

import (
	"fmt"

	"github.com/sebvdn/carte-gpx/internal/config"
	"github.com/sebvdn/carte-gpx/internal/storage/memory"
	"github.com/sebvdn/carte-gpx/internal/storage/postgres"
	"github.com/sebvdn/carte-gpx/internal/storage/sqlite"
)

// NewBackend creates a persistence backend based on configuration.
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlite.New(cfg.SQLite), nil
	case "postgres":
		return postgres.New(cfg.Postgres), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
