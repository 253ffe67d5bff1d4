// Package sqlite implements the persistence backend on an embedded
// SQLite database. This is the default backend.
package sqlite

import (
	"fmt"

	"github.com/sebvdn/carte-gpx/internal/config"
	"github.com/sebvdn/carte-gpx/internal/database"
	"github.com/sebvdn/carte-gpx/internal/storage/gormkv"
)

// Backend persists records and blobs in a SQLite file.
type Backend struct {
	*gormkv.Store

	cfg config.SQLiteConfig
}

// New creates a SQLite backend. The database is opened on Init.
func New(cfg config.SQLiteConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init opens the database file and migrates the schema.
func (b *Backend) Init() error {
	db, err := database.OpenSQLite(b.cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to init sqlite backend: %w", err)
	}
	b.Store = gormkv.NewStore(db)
	return b.Store.Migrate()
}
