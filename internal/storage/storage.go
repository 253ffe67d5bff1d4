// Package storage defines the durable key-value contract the session core
// persists through. Two named records (markers, settings) plus dynamically
// keyed media blobs share one logical namespace.
package storage

import (
	"context"

	"github.com/sebvdn/carte-gpx/internal/model"
)

// Backend is the interface all persistence implementations must satisfy.
// Loads report absence via the bool return; saves always write the full
// snapshot so that reordered writes degrade to last-write-wins.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Named records
	LoadMarkers(ctx context.Context) ([]model.Marker, bool, error)
	SaveMarkers(ctx context.Context, markers []model.Marker) error
	LoadSettings(ctx context.Context) (model.Settings, bool, error)
	SaveSettings(ctx context.Context, settings model.Settings) error

	// Media blobs, keyed by generated string
	SaveBlob(ctx context.Context, key string, data []byte) error
	LoadBlob(ctx context.Context, key string) ([]byte, bool, error)
	DeleteBlob(ctx context.Context, key string) error
}
