package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebvdn/carte-gpx/internal/geo"
	"github.com/sebvdn/carte-gpx/internal/model"
)

func mustCreate(t *testing.T, s *MarkerStore, position geo.Coordinate) model.Marker {
	t.Helper()
	m, err := s.CreateAt(position)
	require.NoError(t, err)
	return m
}

func TestCreateAt(t *testing.T) {
	s := NewMarkerStore()

	m1 := mustCreate(t, s, geo.Coordinate{Latitude: 48.8566, Longitude: 2.3522})
	m2 := mustCreate(t, s, geo.Coordinate{Latitude: 51.5074, Longitude: -0.1278})

	assert.NotEmpty(t, m1.ID)
	assert.NotEqual(t, m1.ID, m2.ID)
	assert.Equal(t, "Point 1", m1.Name)
	assert.Equal(t, "Point 2", m2.Name)
	assert.Equal(t, model.IconPin, m1.Icon)
	assert.Equal(t, 2, s.Len())
}

func TestCreateAtRejectsInvalidPosition(t *testing.T) {
	s := NewMarkerStore()

	// out-of-range and non-numeric positions never reach the list, even
	// when callers build the Coordinate directly
	_, err := s.CreateAt(geo.Coordinate{Latitude: 91, Longitude: 0})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinates)

	_, err = s.CreateAt(geo.Coordinate{Latitude: 0, Longitude: 181})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinates)

	_, err = s.CreateAt(geo.Coordinate{Latitude: math.NaN(), Longitude: 0})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinates)

	assert.Equal(t, 0, s.Len())
}

func TestGetAndRename(t *testing.T) {
	s := NewMarkerStore()
	m := mustCreate(t, s, geo.Coordinate{Latitude: 1, Longitude: 2})

	assert.True(t, s.Rename(m.ID, "Camp"))
	got, err := s.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camp", got.Name)

	// renaming to the same name is still a success
	assert.True(t, s.Rename(m.ID, "Camp"))
	got, err = s.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camp", got.Name)

	// unknown ids are a no-op, mirroring delete
	assert.False(t, s.Rename("nope", "x"))
	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestSetIcon(t *testing.T) {
	s := NewMarkerStore()
	m := mustCreate(t, s, geo.Coordinate{})

	require.NoError(t, s.SetIcon(m.ID, model.IconFlag))
	got, _ := s.Get(m.ID)
	assert.Equal(t, model.IconFlag, got.Icon)

	assert.Error(t, s.SetIcon(m.ID, model.IconType("teapot")))
	assert.ErrorIs(t, s.SetIcon("nope", model.IconFlag), ErrMarkerNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewMarkerStore()
	m := mustCreate(t, s, geo.Coordinate{})

	removed, found := s.Delete(m.ID)
	assert.True(t, found)
	assert.Equal(t, m.ID, removed.ID)
	assert.Equal(t, 0, s.Len())

	_, found = s.Delete(m.ID)
	assert.False(t, found)
}

func TestDeleteClearsSelectionAndDetail(t *testing.T) {
	s := NewMarkerStore()
	m := mustCreate(t, s, geo.Coordinate{})
	other := mustCreate(t, s, geo.Coordinate{})

	_, err := s.ToggleSelect(m.ID)
	require.NoError(t, err)
	require.NoError(t, s.SetDetail(m.ID))

	s.Delete(m.ID)

	assert.False(t, s.Selected(m.ID))
	assert.Equal(t, 0, s.SelectionCount())
	_, ok := s.Detail()
	assert.False(t, ok)

	// detail on a surviving marker is untouched by later deletes
	require.NoError(t, s.SetDetail(other.ID))
	s.Delete("unknown")
	got, ok := s.Detail()
	assert.True(t, ok)
	assert.Equal(t, other.ID, got.ID)
}

func TestToggleSelect(t *testing.T) {
	s := NewMarkerStore()
	m := mustCreate(t, s, geo.Coordinate{})

	selected, err := s.ToggleSelect(m.ID)
	require.NoError(t, err)
	assert.True(t, selected)
	assert.True(t, s.Selected(m.ID))

	selected, err = s.ToggleSelect(m.ID)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.False(t, s.Selected(m.ID))

	_, err = s.ToggleSelect("nope")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestSelectedOrAll(t *testing.T) {
	s := NewMarkerStore()
	m1 := mustCreate(t, s, geo.Coordinate{Latitude: 1})
	m2 := mustCreate(t, s, geo.Coordinate{Latitude: 2})
	m3 := mustCreate(t, s, geo.Coordinate{Latitude: 3})

	// empty selection means everything
	all := s.SelectedOrAll()
	require.Len(t, all, 3)

	_, err := s.ToggleSelect(m3.ID)
	require.NoError(t, err)
	_, err = s.ToggleSelect(m1.ID)
	require.NoError(t, err)

	// subset comes back in insertion order, not selection order
	subset := s.SelectedOrAll()
	require.Len(t, subset, 2)
	assert.Equal(t, m1.ID, subset[0].ID)
	assert.Equal(t, m3.ID, subset[1].ID)
	_ = m2

	s.ClearSelection()
	assert.Len(t, s.SelectedOrAll(), 3)
}

func TestMediaAttachDetach(t *testing.T) {
	s := NewMarkerStore()
	m := mustCreate(t, s, geo.Coordinate{})

	photo := model.MediaAttachment{Kind: model.MediaImage, TransientURL: "transient://a"}
	audio := model.MediaAttachment{Kind: model.MediaAudio, TransientURL: "transient://b"}
	require.NoError(t, s.AttachMedia(m.ID, photo))
	require.NoError(t, s.AttachMedia(m.ID, audio))

	got, _ := s.Get(m.ID)
	require.Len(t, got.Media, 2)

	removed, err := s.DetachMedia(m.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, photo, removed)

	got, _ = s.Get(m.ID)
	require.Len(t, got.Media, 1)
	assert.Equal(t, audio, got.Media[0])

	_, err = s.DetachMedia(m.ID, 1)
	assert.ErrorIs(t, err, ErrMediaIndexOutOfRange)
	_, err = s.DetachMedia(m.ID, -1)
	assert.ErrorIs(t, err, ErrMediaIndexOutOfRange)
	_, err = s.DetachMedia("nope", 0)
	assert.ErrorIs(t, err, ErrMarkerNotFound)

	assert.ErrorIs(t, s.AttachMedia("nope", photo), ErrMarkerNotFound)
}

func TestReplaceResetsSessionState(t *testing.T) {
	s := NewMarkerStore()
	m := mustCreate(t, s, geo.Coordinate{})
	_, err := s.ToggleSelect(m.ID)
	require.NoError(t, err)
	require.NoError(t, s.SetDetail(m.ID))

	restored := []model.Marker{
		{ID: "r1", Name: "Restored", Position: geo.Coordinate{Latitude: 10, Longitude: 20}},
	}
	s.Replace(restored)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.SelectionCount())
	_, ok := s.Detail()
	assert.False(t, ok)

	got, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "Restored", got.Name)
}
