// Package postgres implements the persistence backend on a Postgres
// server, for setups where the annotation data is shared or backed up
// centrally.
package postgres

import (
	"fmt"

	"github.com/sebvdn/carte-gpx/internal/config"
	"github.com/sebvdn/carte-gpx/internal/database"
	"github.com/sebvdn/carte-gpx/internal/storage/gormkv"
)

// Backend persists records and blobs in a Postgres database.
type Backend struct {
	*gormkv.Store

	cfg config.PostgresConfig
}

// New creates a Postgres backend. The connection is established on Init.
func New(cfg config.PostgresConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init connects to the server and migrates the schema.
func (b *Backend) Init() error {
	db, err := database.OpenPostgres(b.cfg)
	if err != nil {
		return fmt.Errorf("failed to init postgres backend: %w", err)
	}
	b.Store = gormkv.NewStore(db)
	return b.Store.Migrate()
}
