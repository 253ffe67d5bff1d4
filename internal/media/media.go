// Package media manages marker attachments. Every attachment gets a
// transient in-session URL; when auto-persist is on the bytes are also
// written to the storage backend under a durable key so they survive
// the session.
package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sebvdn/carte-gpx/internal/cache"
	"github.com/sebvdn/carte-gpx/internal/model"
	"github.com/sebvdn/carte-gpx/internal/storage"
)

// Upload is an incoming media file.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Manager ingests, resolves and releases media attachments.
type Manager struct {
	backend storage.Backend
	cache   *cache.TransientCache
	log     zerolog.Logger
}

// NewManager creates a media manager over the given backend and cache.
func NewManager(backend storage.Backend, transient *cache.TransientCache, log zerolog.Logger) *Manager {
	return &Manager{
		backend: backend,
		cache:   transient,
		log:     log,
	}
}

// Ingest registers an upload and returns the attachment to store on the
// marker. With autoPersist the bytes are also saved durably; a failed
// durable save is logged and degrades the attachment to session-only
// rather than failing the ingest.
func (m *Manager) Ingest(ctx context.Context, upload Upload, autoPersist bool) model.MediaAttachment {
	attachment := model.MediaAttachment{
		Kind:         model.KindFromContentType(upload.ContentType),
		TransientURL: m.cache.Put(upload.Data),
	}

	if !autoPersist {
		return attachment
	}

	key := durableKey(upload.FileName)
	if err := m.backend.SaveBlob(ctx, key, upload.Data); err != nil {
		m.log.Warn().Err(err).
			Str("file", upload.FileName).
			Msg("Failed to persist media, keeping session-only attachment")
		return attachment
	}
	attachment.DurableKey = key
	return attachment
}

// IngestRecorded registers media captured live by the recording
// collaborator, which hands over a session URL rather than a named
// file. Without a file name there is no durable branch; the attachment
// lives exactly as long as its transient URL.
func (m *Manager) IngestRecorded(kind model.MediaKind, transientURL string) (model.MediaAttachment, error) {
	if !kind.Valid() {
		return model.MediaAttachment{}, fmt.Errorf("invalid media kind: %s", kind)
	}
	if _, ok := m.cache.Get(transientURL); !ok {
		return model.MediaAttachment{}, fmt.Errorf("no session media at %s", transientURL)
	}
	return model.MediaAttachment{
		Kind:         kind,
		TransientURL: transientURL,
	}, nil
}

// Resolve returns the attachment's bytes, preferring the transient
// cache and falling back to durable storage. The cache is refilled on a
// durable hit and the attachment's transient URL is refreshed through
// the returned value.
func (m *Manager) Resolve(ctx context.Context, attachment model.MediaAttachment) ([]byte, model.MediaAttachment, error) {
	if data, ok := m.cache.Get(attachment.TransientURL); ok {
		return data, attachment, nil
	}
	if attachment.DurableKey == "" {
		return nil, attachment, fmt.Errorf("attachment %s has no durable copy", attachment.TransientURL)
	}

	data, found, err := m.backend.LoadBlob(ctx, attachment.DurableKey)
	if err != nil {
		return nil, attachment, fmt.Errorf("failed to load media %s: %w", attachment.DurableKey, err)
	}
	if !found {
		return nil, attachment, fmt.Errorf("media %s not found in storage", attachment.DurableKey)
	}

	attachment.TransientURL = m.cache.Put(data)
	return data, attachment, nil
}

// Release drops the attachment's transient entry and deletes its
// durable blob if it has one. Failures are logged, not returned, so a
// broken backend cannot block marker cleanup.
func (m *Manager) Release(ctx context.Context, attachment model.MediaAttachment) {
	m.cache.Delete(attachment.TransientURL)

	if attachment.DurableKey == "" {
		return
	}
	if err := m.backend.DeleteBlob(ctx, attachment.DurableKey); err != nil {
		m.log.Warn().Err(err).
			Str("key", attachment.DurableKey).
			Msg("Failed to delete persisted media")
	}
}

// ReleaseAll releases every attachment of a deleted marker.
func (m *Manager) ReleaseAll(ctx context.Context, attachments []model.MediaAttachment) {
	for _, attachment := range attachments {
		m.Release(ctx, attachment)
	}
}

// durableKey builds a collision-free storage key that still carries the
// original file name for operators poking at the database.
func durableKey(fileName string) string {
	name := sanitize(fileName)
	if name == "" {
		name = "media"
	}
	return uuid.NewString() + "-" + name
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._-")
}
