// Package session wires one annotation session together: the backend,
// the live marker store, the background saver, the media manager and
// the user settings.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sebvdn/carte-gpx/internal/cache"
	"github.com/sebvdn/carte-gpx/internal/media"
	"github.com/sebvdn/carte-gpx/internal/model"
	"github.com/sebvdn/carte-gpx/internal/storage"
	"github.com/sebvdn/carte-gpx/internal/store"
)

// Session is the root object of a running annotation session.
type Session struct {
	Store *store.MarkerStore
	Saver *store.Saver
	Media *media.Manager
	Cache *cache.TransientCache

	backend storage.Backend
	log     zerolog.Logger

	mu       sync.RWMutex
	settings model.Settings
}

// Open initializes the backend and restores the previous session's
// markers and settings. Missing or unreadable records fall back to a
// fresh state, a corrupt database must not brick the tool.
func Open(ctx context.Context, backend storage.Backend, log zerolog.Logger) (*Session, error) {
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	s := &Session{
		Store:    store.NewMarkerStore(),
		Cache:    cache.NewTransientCache(),
		backend:  backend,
		log:      log,
		settings: model.DefaultSettings(),
	}
	s.Media = media.NewManager(backend, s.Cache, log)

	settings, found, err := backend.LoadSettings(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Failed to load settings, using defaults")
	case found:
		s.settings = settings
	}

	markers, found, err := backend.LoadMarkers(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Failed to load markers, starting empty")
	case found:
		s.Store.Replace(markers)
		log.Info().Int("markers", len(markers)).Msg("Restored markers from storage")
	}

	s.Saver = store.NewSaver(backend, s.Store, log)
	return s, nil
}

// Settings returns the current settings.
func (s *Session) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// AutoPersistMedia reports whether new media should be saved durably.
func (s *Session) AutoPersistMedia() bool {
	return s.Settings().AutoPersistMedia
}

// SetBaseLayer switches the map base layer and persists the settings.
func (s *Session) SetBaseLayer(ctx context.Context, layer model.BaseLayer) error {
	if layer != model.LayerDefault && layer != model.LayerSatellite {
		return fmt.Errorf("unknown base layer: %s", layer)
	}
	s.updateSettings(ctx, func(settings *model.Settings) {
		settings.BaseLayer = layer
	})
	return nil
}

// SetAutoPersistMedia toggles durable media saving and persists the
// settings. Existing attachments keep whatever durability they have.
func (s *Session) SetAutoPersistMedia(ctx context.Context, enabled bool) {
	s.updateSettings(ctx, func(settings *model.Settings) {
		settings.AutoPersistMedia = enabled
	})
}

func (s *Session) updateSettings(ctx context.Context, mutate func(*model.Settings)) {
	s.mu.Lock()
	before := s.settings
	mutate(&s.settings)
	changed := s.settings != before
	snapshot := s.settings
	s.mu.Unlock()

	if !changed {
		return
	}
	if err := s.backend.SaveSettings(ctx, snapshot); err != nil {
		// the in-memory value stays authoritative for this session
		s.log.Warn().Err(err).Msg("Failed to persist settings")
	}
}

// Close flushes pending saves and releases the backend.
func (s *Session) Close() error {
	s.Saver.Close()
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("failed to close session storage: %w", err)
	}
	return nil
}
