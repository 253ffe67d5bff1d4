package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when a latitude/longitude pair is out of range
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ErrOutsideUTMRange is returned when a coordinate cannot be projected to UTM
var ErrOutsideUTMRange = errors.New("coordinate outside projectable UTM range")

// Coordinate is an immutable WGS84 (EPSG:4326) position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate validates and constructs a Coordinate.
// Latitude must be within [-90, 90] and longitude within [-180, 180].
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	if math.IsNaN(latitude) || math.IsNaN(longitude) {
		return Coordinate{}, ErrInvalidCoordinates
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return Coordinate{}, ErrInvalidCoordinates
	}
	return Coordinate{Latitude: latitude, Longitude: longitude}, nil
}

// Validate reports whether the coordinate is a real WGS84 position.
// A zero Coordinate built by hand bypasses NewCoordinate, so consumers
// that accept Coordinate values directly re-check here.
func (c Coordinate) Validate() error {
	_, err := NewCoordinate(c.Latitude, c.Longitude)
	return err
}

// CoordinateFromString parses a string in the format "lat,long" into a Coordinate.
func CoordinateFromString(coords string) (Coordinate, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return Coordinate{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return Coordinate{}, ErrInvalidCoordinates
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return Coordinate{}, ErrInvalidCoordinates
	}
	return NewCoordinate(lat, long)
}

// UTM is a projected UTM position with its grid designation.
type UTM struct {
	Easting    float64 `json:"easting"`
	Northing   float64 `json:"northing"`
	ZoneNumber int     `json:"zoneNumber"`
	ZoneLetter string  `json:"zoneLetter"`
}

// zoneNumber returns the UTM zone for a coordinate, including the
// grid exceptions around Norway and Svalbard.
func zoneNumber(c Coordinate) int {
	zone := int((c.Longitude+180)/6) + 1
	if c.Longitude == 180 {
		zone = 60
	}
	if c.Latitude >= 56 && c.Latitude < 64 && c.Longitude >= 3 && c.Longitude < 12 {
		zone = 32
	}
	if c.Latitude >= 72 && c.Latitude < 84 {
		switch {
		case c.Longitude >= 0 && c.Longitude < 9:
			zone = 31
		case c.Longitude >= 9 && c.Longitude < 21:
			zone = 33
		case c.Longitude >= 21 && c.Longitude < 33:
			zone = 35
		case c.Longitude >= 33 && c.Longitude < 42:
			zone = 37
		}
	}
	return zone
}

// zoneLetters maps 8-degree latitude bands starting at 80S to their
// designators. I and O are skipped, X runs to 84N.
const zoneLetters = "CDEFGHJKLMNPQRSTUVWX"

func zoneLetter(latitude float64) (string, error) {
	if latitude < -80 || latitude > 84 {
		return "", ErrOutsideUTMRange
	}
	idx := int((latitude + 80) / 8)
	if idx >= len(zoneLetters) {
		// 80..84 stays in band X
		idx = len(zoneLetters) - 1
	}
	return string(zoneLetters[idx]), nil
}

// ToUTM projects a WGS84 coordinate onto the UTM grid using an
// ellipsoidal EPSG transform (4326 -> 326xx north / 327xx south).
func ToUTM(c Coordinate) (UTM, error) {
	letter, err := zoneLetter(c.Latitude)
	if err != nil {
		return UTM{}, err
	}
	zone := zoneNumber(c)

	code := 32600 + zone
	if c.Latitude < 0 {
		code = 32700 + zone
	}

	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, code)
	east, north, _ := f(c.Longitude, c.Latitude, 0)
	if math.IsNaN(east) || math.IsNaN(north) {
		return UTM{}, ErrOutsideUTMRange
	}

	return UTM{
		Easting:    east,
		Northing:   north,
		ZoneNumber: zone,
		ZoneLetter: letter,
	}, nil
}
