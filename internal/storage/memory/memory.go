// Package memory implements the persistence backend with in-process maps.
// Nothing survives the session; it backs tests and ephemeral usage.
package memory

import (
	"context"
	"sync"

	"github.com/sebvdn/carte-gpx/internal/model"
)

// Backend stores records and blobs in memory.
type Backend struct {
	mu sync.RWMutex

	markers     []model.Marker
	hasMarkers  bool
	settings    model.Settings
	hasSettings bool

	blobs map[string][]byte
}

// New creates a new memory backend.
func New() *Backend {
	return &Backend{
		blobs: make(map[string][]byte),
	}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// LoadMarkers returns the last saved marker snapshot.
func (b *Backend) LoadMarkers(ctx context.Context) ([]model.Marker, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.hasMarkers {
		return nil, false, nil
	}
	out := make([]model.Marker, len(b.markers))
	copy(out, b.markers)
	return out, true, nil
}

// SaveMarkers replaces the marker snapshot.
func (b *Backend) SaveMarkers(ctx context.Context, markers []model.Marker) error {
	snapshot := make([]model.Marker, len(markers))
	copy(snapshot, markers)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.markers = snapshot
	b.hasMarkers = true
	return nil
}

// LoadSettings returns the last saved settings record.
func (b *Backend) LoadSettings(ctx context.Context) (model.Settings, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.hasSettings {
		return model.Settings{}, false, nil
	}
	return b.settings, true, nil
}

// SaveSettings replaces the settings record.
func (b *Backend) SaveSettings(ctx context.Context, settings model.Settings) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = settings
	b.hasSettings = true
	return nil
}

// SaveBlob stores a media blob under the given key.
func (b *Backend) SaveBlob(ctx context.Context, key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = cp
	return nil
}

// LoadBlob retrieves a media blob by key.
func (b *Backend) LoadBlob(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// DeleteBlob removes a media blob. Unknown keys are a no-op.
func (b *Backend) DeleteBlob(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.blobs, key)
	return nil
}
