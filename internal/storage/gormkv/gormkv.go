// Package gormkv implements the record and blob storage shared by the
// SQL-backed persistence backends. Named records are stored as JSON
// documents, media blobs as raw bytes, both keyed by string.
package gormkv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sebvdn/carte-gpx/internal/model"
)

// Record keys of the two named documents.
const (
	keyMarkers  = "markers"
	keySettings = "settings"
)

// Record is a named JSON document row.
type Record struct {
	Key string         `gorm:"primaryKey"`
	Doc datatypes.JSON `gorm:"not null"`
}

// Blob is a media blob row.
type Blob struct {
	Key  string `gorm:"primaryKey"`
	Data []byte `gorm:"not null"`
}

// Store persists records and blobs through a gorm connection. The
// SQLite and Postgres backends embed it and supply the connection.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the record and blob tables if missing.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Record{}, &Blob{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) saveRecord(ctx context.Context, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", key, err)
	}

	record := Record{Key: key, Doc: raw}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"doc"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", key, err)
	}
	return nil
}

func (s *Store) loadRecord(ctx context.Context, key string, doc any) (bool, error) {
	var record Record
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load record %s: %w", key, err)
	}
	if err := json.Unmarshal(record.Doc, doc); err != nil {
		return false, fmt.Errorf("failed to decode record %s: %w", key, err)
	}
	return true, nil
}

// LoadMarkers returns the stored marker snapshot.
func (s *Store) LoadMarkers(ctx context.Context) ([]model.Marker, bool, error) {
	var markers []model.Marker
	found, err := s.loadRecord(ctx, keyMarkers, &markers)
	if err != nil || !found {
		return nil, found, err
	}
	return markers, true, nil
}

// SaveMarkers replaces the stored marker snapshot.
func (s *Store) SaveMarkers(ctx context.Context, markers []model.Marker) error {
	if markers == nil {
		markers = []model.Marker{}
	}
	return s.saveRecord(ctx, keyMarkers, markers)
}

// LoadSettings returns the stored settings record.
func (s *Store) LoadSettings(ctx context.Context) (model.Settings, bool, error) {
	var settings model.Settings
	found, err := s.loadRecord(ctx, keySettings, &settings)
	if err != nil || !found {
		return model.Settings{}, found, err
	}
	return settings, true, nil
}

// SaveSettings replaces the stored settings record.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) error {
	return s.saveRecord(ctx, keySettings, settings)
}

// SaveBlob stores a media blob, overwriting any existing data at the key.
func (s *Store) SaveBlob(ctx context.Context, key string, data []byte) error {
	blob := Blob{Key: key, Data: data}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return nil
}

// LoadBlob retrieves a media blob by key.
func (s *Store) LoadBlob(ctx context.Context, key string) ([]byte, bool, error) {
	var blob Blob
	err := s.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	return blob.Data, true, nil
}

// DeleteBlob removes a media blob. Unknown keys are a no-op.
func (s *Store) DeleteBlob(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&Blob{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
