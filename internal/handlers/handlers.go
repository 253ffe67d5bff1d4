// Package handlers maps dispatcher commands onto session operations.
// This is the surface a UI frontend talks to; everything below it is
// plain method calls on the session.
package handlers

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sebvdn/carte-gpx/internal/dispatcher"
	"github.com/sebvdn/carte-gpx/internal/export"
	"github.com/sebvdn/carte-gpx/internal/geo"
	"github.com/sebvdn/carte-gpx/internal/media"
	"github.com/sebvdn/carte-gpx/internal/model"
	"github.com/sebvdn/carte-gpx/internal/session"
	"github.com/sebvdn/carte-gpx/internal/telemetry"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Session   *session.Session
	Delivery  export.Delivery
	Telemetry *telemetry.Manager
}

// Service processes UI commands against the session.
type Service struct {
	deps Dependencies

	// selection mode is a UI toggle: while on, marker clicks select
	// instead of opening the detail view
	selectionMode atomic.Bool
}

// NewService creates a handler service.
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// SelectionMode reports whether marker clicks currently select.
func (s *Service) SelectionMode() bool {
	return s.selectionMode.Load()
}

// RenamePayload renames a marker.
type RenamePayload struct {
	MarkerID string
	Name     string
}

// IconPayload changes a marker's icon type.
type IconPayload struct {
	MarkerID string
	Icon     string
}

// AttachPayload attaches an uploaded file to a marker.
type AttachPayload struct {
	MarkerID string
	Upload   media.Upload
}

// DetachPayload removes one attachment from a marker.
type DetachPayload struct {
	MarkerID string
	Index    int
}

// RegisterHandlers registers all command handlers with the dispatcher.
// Marker commands run sync so the UI sees the result immediately;
// media ingestion is buffered because uploads can be large; exports
// run sync but logged, they are rare and the user is waiting anyway.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(":MAP:CLICK:", s.handleMapClick, dispatcher.Logged())
	d.Register(":MARKER:CLICK:", s.handleMarkerClick, dispatcher.Logged())
	d.Register(":MARKER:RENAME:", s.handleMarkerRename, dispatcher.Logged())
	d.Register(":MARKER:ICON:", s.handleMarkerIcon, dispatcher.Logged())
	d.Register(":MARKER:DELETE:", s.handleMarkerDelete, dispatcher.Logged())

	d.Register(":MEDIA:ATTACH:", s.handleMediaAttach, dispatcher.Buffered(100), dispatcher.Logged())
	d.Register(":MEDIA:DETACH:", s.handleMediaDetach, dispatcher.Logged())

	d.Register(":SELECTION:MODE:", s.handleSelectionMode, dispatcher.Logged())
	d.Register(":SETTINGS:LAYER:", s.handleSettingsLayer, dispatcher.Logged())
	d.Register(":SETTINGS:AUTOSAVE:", s.handleSettingsAutosave, dispatcher.Logged())

	d.Register(":EXPORT:", s.handleExport, dispatcher.Logged())
}

// handleMapClick creates a marker at the clicked position. Payload is
// a "lat,long" string. While selection mode is on, map clicks are
// ignored so a missed marker click cannot spawn a stray point.
func (s *Service) handleMapClick(e dispatcher.Event) (any, error) {
	if s.selectionMode.Load() {
		return nil, nil
	}
	coords, ok := e.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("map click payload must be a coordinate string")
	}
	position, err := geo.CoordinateFromString(coords)
	if err != nil {
		return nil, err
	}

	marker, err := s.deps.Session.Store.CreateAt(position)
	if err != nil {
		return nil, err
	}
	s.deps.Session.Saver.Notify()
	if s.deps.Telemetry != nil {
		s.deps.Telemetry.MarkerCreated()
	}
	return marker, nil
}

// handleMarkerClick either toggles selection or opens the detail view,
// depending on the selection mode.
func (s *Service) handleMarkerClick(e dispatcher.Event) (any, error) {
	id, ok := e.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("marker click payload must be a marker id")
	}

	if s.selectionMode.Load() {
		selected, err := s.deps.Session.Store.ToggleSelect(id)
		if err != nil {
			return nil, err
		}
		return selected, nil
	}

	if err := s.deps.Session.Store.SetDetail(id); err != nil {
		return nil, err
	}
	marker, _ := s.deps.Session.Store.Detail()
	return marker, nil
}

func (s *Service) handleMarkerRename(e dispatcher.Event) (any, error) {
	payload, ok := e.Payload.(RenamePayload)
	if !ok {
		return nil, fmt.Errorf("rename payload must be a RenamePayload")
	}
	found := s.deps.Session.Store.Rename(payload.MarkerID, payload.Name)
	if found {
		s.deps.Session.Saver.Notify()
	}
	return found, nil
}

func (s *Service) handleMarkerIcon(e dispatcher.Event) (any, error) {
	payload, ok := e.Payload.(IconPayload)
	if !ok {
		return nil, fmt.Errorf("icon payload must be an IconPayload")
	}
	if err := s.deps.Session.Store.SetIcon(payload.MarkerID, model.IconType(payload.Icon)); err != nil {
		return nil, err
	}
	s.deps.Session.Saver.Notify()
	return nil, nil
}

// handleMarkerDelete removes the marker and releases its media. The
// payload is the marker id; deleting an already gone marker succeeds.
func (s *Service) handleMarkerDelete(e dispatcher.Event) (any, error) {
	id, ok := e.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("delete payload must be a marker id")
	}

	removed, found := s.deps.Session.Store.Delete(id)
	if !found {
		return false, nil
	}

	s.deps.Session.Media.ReleaseAll(context.Background(), removed.Media)
	s.deps.Session.Saver.Notify()
	return true, nil
}

func (s *Service) handleMediaAttach(e dispatcher.Event) (any, error) {
	payload, ok := e.Payload.(AttachPayload)
	if !ok {
		return nil, fmt.Errorf("attach payload must be an AttachPayload")
	}

	attachment := s.deps.Session.Media.Ingest(
		context.Background(),
		payload.Upload,
		s.deps.Session.AutoPersistMedia(),
	)
	if err := s.deps.Session.Store.AttachMedia(payload.MarkerID, attachment); err != nil {
		// the marker vanished while the upload was queued; drop the
		// orphaned bytes
		s.deps.Session.Media.Release(context.Background(), attachment)
		return nil, err
	}
	s.deps.Session.Saver.Notify()
	return attachment, nil
}

func (s *Service) handleMediaDetach(e dispatcher.Event) (any, error) {
	payload, ok := e.Payload.(DetachPayload)
	if !ok {
		return nil, fmt.Errorf("detach payload must be a DetachPayload")
	}

	removed, err := s.deps.Session.Store.DetachMedia(payload.MarkerID, payload.Index)
	if err != nil {
		return nil, err
	}
	s.deps.Session.Media.Release(context.Background(), removed)
	s.deps.Session.Saver.Notify()
	return removed, nil
}

// handleSelectionMode toggles selection mode. Leaving it clears the
// selection so a stale subset cannot surprise the next export.
func (s *Service) handleSelectionMode(e dispatcher.Event) (any, error) {
	enabled, ok := e.Payload.(bool)
	if !ok {
		return nil, fmt.Errorf("selection mode payload must be a bool")
	}

	s.selectionMode.Store(enabled)
	if !enabled {
		s.deps.Session.Store.ClearSelection()
	}
	return enabled, nil
}

func (s *Service) handleSettingsLayer(e dispatcher.Event) (any, error) {
	layer, ok := e.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("layer payload must be a string")
	}
	if err := s.deps.Session.SetBaseLayer(context.Background(), model.BaseLayer(layer)); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Service) handleSettingsAutosave(e dispatcher.Event) (any, error) {
	enabled, ok := e.Payload.(bool)
	if !ok {
		return nil, fmt.Errorf("autosave payload must be a bool")
	}
	s.deps.Session.SetAutoPersistMedia(context.Background(), enabled)
	return nil, nil
}

// handleExport encodes the selected markers (or all, when nothing is
// selected) and delivers the file. Payload is the format name, the
// result is the written path.
func (s *Service) handleExport(e dispatcher.Event) (any, error) {
	name, ok := e.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("export payload must be a format name")
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	markers := s.deps.Session.Store.SelectedOrAll()
	payload, err := export.Export(format, markers)
	if err != nil {
		return nil, err
	}

	path, err := s.deps.Delivery.Deliver(payload)
	if err != nil {
		return nil, err
	}

	if s.deps.Telemetry != nil {
		s.deps.Telemetry.ExportCompleted(string(format), len(markers))
	}
	return path, nil
}
