// Package model defines the marker, media and settings types shared by the
// store, persistence and export layers.
package model

import (
	"strings"

	"github.com/sebvdn/carte-gpx/internal/geo"
)

// MediaKind is the closed set of attachment types.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// Valid reports whether k is one of the known media kinds.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaImage, MediaAudio, MediaVideo:
		return true
	}
	return false
}

// KindFromContentType classifies a MIME content type into a MediaKind.
// Anything that is not image/* or audio/* is treated as video.
func KindFromContentType(contentType string) MediaKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage
	case strings.HasPrefix(contentType, "audio/"):
		return MediaAudio
	default:
		return MediaVideo
	}
}

// IconType selects the marker glyph rendered by the map collaborator.
type IconType string

const (
	IconPin        IconType = "pin"
	IconNavigation IconType = "navigation"
	IconHome       IconType = "home"
	IconBuilding   IconType = "building"
	IconFlag       IconType = "flag"
)

// Valid reports whether t is one of the known icon types.
func (t IconType) Valid() bool {
	switch t {
	case IconPin, IconNavigation, IconHome, IconBuilding, IconFlag:
		return true
	}
	return false
}

// MediaAttachment references one media resource attached to a marker.
// TransientURL points at session-local bytes and dies with the session.
// DurableKey, when set, is the blob key in the persistence backend.
type MediaAttachment struct {
	Kind         MediaKind `json:"type"`
	TransientURL string    `json:"url"`
	DurableKey   string    `json:"localPath,omitempty"`
}

// Marker is a named, typed point placed on the map.
type Marker struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Position geo.Coordinate    `json:"position"`
	Icon     IconType          `json:"type"`
	Media    []MediaAttachment `json:"media,omitempty"`
}

// BaseLayer selects the tile layer of the map collaborator.
type BaseLayer string

const (
	LayerDefault   BaseLayer = "default"
	LayerSatellite BaseLayer = "satellite"
)

// Settings is the persisted singleton user configuration.
type Settings struct {
	BaseLayer        BaseLayer `json:"mapLayer"`
	AutoPersistMedia bool      `json:"autoSaveMedia"`
}

// DefaultSettings returns the settings used when nothing was persisted yet.
func DefaultSettings() Settings {
	return Settings{
		BaseLayer:        LayerDefault,
		AutoPersistMedia: true,
	}
}
