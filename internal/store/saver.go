package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sebvdn/carte-gpx/internal/storage"
)

const saveTimeout = 10 * time.Second

// Saver persists marker snapshots in the background. Notifications
// coalesce: while a save is in flight further notifies collapse into a
// single pending one, and every save reads the store's state at write
// time, so the last write always carries the newest snapshot.
type Saver struct {
	backend storage.Backend
	store   *MarkerStore
	log     zerolog.Logger

	mu     sync.Mutex
	closed bool
	notify chan struct{}
	done   chan struct{}
}

// NewSaver starts the background persister for the given store.
func NewSaver(backend storage.Backend, store *MarkerStore, log zerolog.Logger) *Saver {
	s := &Saver{
		backend: backend,
		store:   store,
		log:     log,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Notify schedules a save of the current marker state. Never blocks;
// calls after Close are ignored.
func (s *Saver) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Close drains any pending notification, performs a final save and
// stops the background goroutine. Safe to call once.
func (s *Saver) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	close(s.notify)
	s.mu.Unlock()
	<-s.done
}

func (s *Saver) run() {
	defer close(s.done)

	for range s.notify {
		s.save()
	}
	// final flush so state queued right before Close still lands
	s.save()
}

func (s *Saver) save() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	markers := s.store.List()
	if err := s.backend.SaveMarkers(ctx, markers); err != nil {
		// persistence failures must not disturb the session
		s.log.Error().Err(err).Int("markers", len(markers)).Msg("Failed to persist marker snapshot")
		return
	}
	s.log.Debug().Int("markers", len(markers)).Msg("Persisted marker snapshot")
}
