package export

import (
	"fmt"
	"strings"
)

// Format selects one of the supported export encodings.
type Format string

const (
	// FormatJSON is the native marker document, round-trippable.
	FormatJSON Format = "json"
	// FormatCSV is a flat spreadsheet-friendly table.
	FormatCSV Format = "csv"
	// FormatGPX is a GPS exchange document for navigation devices.
	FormatGPX Format = "gpx"
	// FormatUTM is a table with positions projected onto the UTM grid.
	FormatUTM Format = "utm"
)

// ParseFormat maps user input to a Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatGPX:
		return FormatGPX, nil
	case FormatUTM:
		return FormatUTM, nil
	default:
		return "", fmt.Errorf("unknown export format: %q", s)
	}
}

// Filename returns the default file name for the format.
func (f Format) Filename() string {
	switch f {
	case FormatJSON:
		return "points.json"
	case FormatCSV:
		return "points.csv"
	case FormatGPX:
		return "points.gpx"
	case FormatUTM:
		return "points_utm.csv"
	default:
		return "points.dat"
	}
}

// ContentType returns the MIME type of the encoded payload.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatGPX:
		return "application/gpx+xml"
	default:
		return "text/csv"
	}
}
