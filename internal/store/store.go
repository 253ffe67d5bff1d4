// Package store holds the in-memory session state: the ordered marker
// list, the selection set and the detail focus. It is the single
// authority for marker mutations; persistence observes it through
// snapshots.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sebvdn/carte-gpx/internal/geo"
	"github.com/sebvdn/carte-gpx/internal/model"
)

var (
	// ErrMarkerNotFound is returned when an operation targets an
	// unknown marker id.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrMediaIndexOutOfRange is returned when a media operation
	// targets an index past the marker's attachment list.
	ErrMediaIndexOutOfRange = errors.New("media index out of range")
)

// MarkerStore owns the live marker state for one session.
type MarkerStore struct {
	mu sync.RWMutex

	markers  []model.Marker
	selected map[string]struct{}
	detailID string
}

// NewMarkerStore creates an empty store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		selected: make(map[string]struct{}),
	}
}

// Replace swaps in a previously persisted marker list. Selection and
// detail focus are reset; they are session-local and never persisted.
func (s *MarkerStore) Replace(markers []model.Marker) {
	snapshot := make([]model.Marker, len(markers))
	copy(snapshot, markers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = snapshot
	s.selected = make(map[string]struct{})
	s.detailID = ""
}

// CreateAt appends a new marker at the given position and returns it.
// The name defaults to "Point {n}" where n is the new list length. The
// position is validated here as well as at the parse boundary, so a
// direct API caller cannot slip an out-of-range marker into the list.
func (s *MarkerStore) CreateAt(position geo.Coordinate) (model.Marker, error) {
	if err := position.Validate(); err != nil {
		return model.Marker{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	marker := model.Marker{
		ID:       uuid.NewString(),
		Name:     fmt.Sprintf("Point %d", len(s.markers)+1),
		Position: position,
		Icon:     model.IconPin,
	}
	s.markers = append(s.markers, marker)
	return marker, nil
}

// Get returns the marker with the given id.
func (s *MarkerStore) Get(id string) (model.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Marker{}, ErrMarkerNotFound
	}
	return s.markers[i], nil
}

// List returns a copy of all markers in insertion order.
func (s *MarkerStore) List() []model.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// Len returns the number of markers.
func (s *MarkerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// Rename sets the marker's display name and reports whether the marker
// exists. Renaming an unknown id, like deleting one, is a harmless
// no-op; renaming to the current name succeeds unchanged.
func (s *MarkerStore) Rename(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.markers[i].Name = name
	return true
}

// SetIcon changes the marker's icon type.
func (s *MarkerStore) SetIcon(id string, icon model.IconType) error {
	if !icon.Valid() {
		return fmt.Errorf("invalid icon type: %s", icon)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrMarkerNotFound
	}
	s.markers[i].Icon = icon
	return nil
}

// Delete removes the marker and returns it so callers can release its
// media. Deleting an unknown id reports found=false without error, so
// repeated deletes are safe. The marker is also dropped from the
// selection set and cleared as detail focus.
func (s *MarkerStore) Delete(id string) (model.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Marker{}, false
	}

	removed := s.markers[i]
	s.markers = append(s.markers[:i], s.markers[i+1:]...)
	delete(s.selected, id)
	if s.detailID == id {
		s.detailID = ""
	}
	return removed, true
}

// AttachMedia appends an attachment to the marker's media list.
func (s *MarkerStore) AttachMedia(id string, attachment model.MediaAttachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrMarkerNotFound
	}
	s.markers[i].Media = append(s.markers[i].Media, attachment)
	return nil
}

// DetachMedia removes the attachment at the given index and returns it
// so callers can release its stored blob.
func (s *MarkerStore) DetachMedia(id string, index int) (model.MediaAttachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.MediaAttachment{}, ErrMarkerNotFound
	}
	media := s.markers[i].Media
	if index < 0 || index >= len(media) {
		return model.MediaAttachment{}, ErrMediaIndexOutOfRange
	}

	removed := media[index]
	s.markers[i].Media = append(media[:index], media[index+1:]...)
	return removed, nil
}

// ToggleSelect flips the marker's membership in the selection set and
// reports whether it is now selected.
func (s *MarkerStore) ToggleSelect(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return false, ErrMarkerNotFound
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false, nil
	}
	s.selected[id] = struct{}{}
	return true, nil
}

// ClearSelection empties the selection set.
func (s *MarkerStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// SelectionCount returns the number of selected markers.
func (s *MarkerStore) SelectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

// Selected reports whether the marker is in the selection set.
func (s *MarkerStore) Selected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// SelectedOrAll returns the selected markers in insertion order, or
// every marker when the selection set is empty. This is the subset
// rule all exports follow.
func (s *MarkerStore) SelectedOrAll() []model.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.selected) == 0 {
		out := make([]model.Marker, len(s.markers))
		copy(out, s.markers)
		return out
	}

	out := make([]model.Marker, 0, len(s.selected))
	for _, m := range s.markers {
		if _, ok := s.selected[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}

// SetDetail focuses the marker detail view on the given id, or clears
// it when id is empty.
func (s *MarkerStore) SetDetail(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.indexOf(id) < 0 {
		return ErrMarkerNotFound
	}
	s.detailID = id
	return nil
}

// Detail returns the currently focused marker, if any.
func (s *MarkerStore) Detail() (model.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.detailID == "" {
		return model.Marker{}, false
	}
	i := s.indexOf(s.detailID)
	if i < 0 {
		return model.Marker{}, false
	}
	return s.markers[i], true
}

// indexOf must be called with the lock held.
func (s *MarkerStore) indexOf(id string) int {
	for i, m := range s.markers {
		if m.ID == id {
			return i
		}
	}
	return -1
}
