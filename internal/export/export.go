// Package export encodes marker lists into the supported interchange
// formats. Encoders are pure: they take the already selected markers
// and return bytes, leaving file placement to a Delivery.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/sebvdn/carte-gpx/internal/geo"
	"github.com/sebvdn/carte-gpx/internal/model"
)

// Payload is one encoded export ready for delivery.
type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export encodes the markers in the given format. The whole export
// fails if any marker cannot be encoded; partial files are never
// produced.
func Export(format Format, markers []model.Marker) (Payload, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = encodeJSON(markers)
	case FormatCSV:
		data, err = encodeCSV(markers)
	case FormatGPX:
		data, err = encodeGPX(markers)
	case FormatUTM:
		data, err = encodeUTM(markers)
	default:
		return Payload{}, fmt.Errorf("unknown export format: %q", format)
	}
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Filename:    format.Filename(),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// encodeJSON writes the native marker document. It round-trips through
// the persistence schema, so an exported file can be inspected or
// re-imported as-is.
func encodeJSON(markers []model.Marker) ([]byte, error) {
	if markers == nil {
		markers = []model.Marker{}
	}
	data, err := json.MarshalIndent(markers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json export: %w", err)
	}
	return append(data, '\n'), nil
}

func encodeCSV(markers []model.Marker) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "latitude", "longitude", "type"}); err != nil {
		return nil, fmt.Errorf("failed to encode csv export: %w", err)
	}
	for _, m := range markers {
		record := []string{
			m.Name,
			strconv.FormatFloat(m.Position.Latitude, 'f', -1, 64),
			strconv.FormatFloat(m.Position.Longitude, 'f', -1, 64),
			string(m.Icon),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to encode csv export: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode csv export: %w", err)
	}
	return buf.Bytes(), nil
}

type gpxWaypoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Name string  `xml:"name,omitempty"`
	Type string  `xml:"type,omitempty"`
}

type gpxDocument struct {
	XMLName   xml.Name      `xml:"gpx"`
	Version   string        `xml:"version,attr"`
	Creator   string        `xml:"creator,attr"`
	Namespace string        `xml:"xmlns,attr"`
	Waypoints []gpxWaypoint `xml:"wpt"`
}

// encodeGPX converts the markers to a GeoJSON feature collection first
// and renders that as GPX 1.1 waypoints. Going through geometry types
// keeps axis order explicit (GeoJSON is lon/lat, GPX attributes are
// lat/lon) and rejects non-finite positions.
func encodeGPX(markers []model.Marker) ([]byte, error) {
	collection := geom.GeoJSONFeatureCollection{}
	for _, m := range markers {
		if !finite(m.Position) {
			return nil, fmt.Errorf("marker %s has a non-finite position", m.ID)
		}
		point, err := geom.NewPoint(geom.Coordinates{
			XY: geom.XY{X: m.Position.Longitude, Y: m.Position.Latitude},
		})
		if err != nil {
			return nil, fmt.Errorf("marker %s has an unencodable position: %w", m.ID, err)
		}
		collection = append(collection, geom.GeoJSONFeature{
			Geometry: point.AsGeometry(),
			Properties: map[string]any{
				"name": m.Name,
				"type": string(m.Icon),
			},
		})
	}

	doc := gpxDocument{
		Version:   "1.1",
		Creator:   "carte-gpx",
		Namespace: "http://www.topografix.com/GPX/1/1",
		Waypoints: make([]gpxWaypoint, 0, len(collection)),
	}
	for _, feature := range collection {
		xy, ok := feature.Geometry.MustAsPoint().XY()
		if !ok {
			continue
		}
		doc.Waypoints = append(doc.Waypoints, gpxWaypoint{
			Lat:  xy.Y,
			Lon:  xy.X,
			Name: feature.Properties["name"].(string),
			Type: feature.Properties["type"].(string),
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode gpx export: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// encodeUTM writes the projected table. A single unprojectable marker
// fails the export, a file with silently missing rows would be worse
// than no file.
func encodeUTM(markers []model.Marker) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "easting", "northing", "zoneNumber", "zoneLetter"}); err != nil {
		return nil, fmt.Errorf("failed to encode utm export: %w", err)
	}
	for _, m := range markers {
		utm, err := geo.ToUTM(m.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to project marker %s (%q): %w", m.ID, m.Name, err)
		}
		record := []string{
			m.Name,
			strconv.FormatFloat(utm.Easting, 'f', 2, 64),
			strconv.FormatFloat(utm.Northing, 'f', 2, 64),
			strconv.Itoa(utm.ZoneNumber),
			utm.ZoneLetter,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to encode utm export: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode utm export: %w", err)
	}
	return buf.Bytes(), nil
}

func finite(c geo.Coordinate) bool {
	return !math.IsNaN(c.Latitude) && !math.IsInf(c.Latitude, 0) &&
		!math.IsNaN(c.Longitude) && !math.IsInf(c.Longitude, 0)
}
