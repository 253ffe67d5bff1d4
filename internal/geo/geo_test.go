package geo

import (
	"errors"
	"math"
	"testing"
)

func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		long    float64
		wantErr bool
	}{
		{"valid", 48.8566, 2.3522, false},
		{"equator meridian", 0, 0, false},
		{"north pole", 90, 0, false},
		{"south pole", -90, 0, false},
		{"antimeridian", 0, 180, false},
		{"latitude too high", 90.01, 0, true},
		{"latitude too low", -90.01, 0, true},
		{"longitude too high", 0, 180.01, true},
		{"longitude too low", 0, -180.01, true},
		{"nan latitude", math.NaN(), 0, true},
		{"nan longitude", 0, math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinate(tt.lat, tt.long)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCoordinates) {
					t.Errorf("expected ErrInvalidCoordinates, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Latitude != tt.lat || c.Longitude != tt.long {
				t.Errorf("got %+v, want lat=%v long=%v", c, tt.lat, tt.long)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (Coordinate{Latitude: 48.8566, Longitude: 2.3522}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Coordinate{Latitude: 91, Longitude: 0}).Validate(); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
	if err := (Coordinate{Latitude: 0, Longitude: math.Inf(1)}).Validate(); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestCoordinateFromString(t *testing.T) {
	c, err := CoordinateFromString("48.8566, 2.3522")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Latitude != 48.8566 || c.Longitude != 2.3522 {
		t.Errorf("got %+v", c)
	}

	for _, bad := range []string{"", "48.8566", "a,b", "91,0", "1,2,3"} {
		if _, err := CoordinateFromString(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestZoneNumber(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		long float64
		want int
	}{
		{"paris", 48.8566, 2.3522, 31},
		{"sydney", -33.8688, 151.2093, 56},
		{"greenwich", 51.4779, 0, 31},
		{"date line east", 0, 180, 60},
		{"oslo norway exception", 59.91, 10.75, 32},
		{"svalbard", 78.22, 15.65, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coordinate{Latitude: tt.lat, Longitude: tt.long}
			if got := zoneNumber(c); got != tt.want {
				t.Errorf("zoneNumber(%v) = %d, want %d", c, got, tt.want)
			}
		})
	}
}

func TestZoneLetter(t *testing.T) {
	tests := []struct {
		lat     float64
		want    string
		wantErr bool
	}{
		{48.8566, "U", false},
		{-33.8688, "H", false},
		{0, "N", false},
		{83.9, "X", false},
		{-79.9, "C", false},
		{84.5, "", true},
		{-80.5, "", true},
	}

	for _, tt := range tests {
		got, err := zoneLetter(tt.lat)
		if tt.wantErr {
			if !errors.Is(err, ErrOutsideUTMRange) {
				t.Errorf("zoneLetter(%v): expected ErrOutsideUTMRange, got %v", tt.lat, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("zoneLetter(%v): unexpected error %v", tt.lat, err)
		}
		if got != tt.want {
			t.Errorf("zoneLetter(%v) = %s, want %s", tt.lat, got, tt.want)
		}
	}
}

func TestToUTM(t *testing.T) {
	// Paris: zone 31U, easting ~452484, northing ~5411718
	paris := Coordinate{Latitude: 48.8566, Longitude: 2.3522}
	utm, err := ToUTM(paris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if utm.ZoneNumber != 31 || utm.ZoneLetter != "U" {
		t.Errorf("got zone %d%s, want 31U", utm.ZoneNumber, utm.ZoneLetter)
	}
	if math.Abs(utm.Easting-452484) > 5 || math.Abs(utm.Northing-5411718) > 5 {
		t.Errorf("got easting=%f northing=%f", utm.Easting, utm.Northing)
	}

	// Sydney: southern hemisphere, zone 56H
	sydney := Coordinate{Latitude: -33.8688, Longitude: 151.2093}
	utm, err = ToUTM(sydney)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if utm.ZoneNumber != 56 || utm.ZoneLetter != "H" {
		t.Errorf("got zone %d%s, want 56H", utm.ZoneNumber, utm.ZoneLetter)
	}
	// southern hemisphere northings carry the 10,000km false northing
	if utm.Northing < 6000000 {
		t.Errorf("expected false northing applied, got %f", utm.Northing)
	}
}

func TestToUTM_OutsideRange(t *testing.T) {
	polar := Coordinate{Latitude: 88, Longitude: 0}
	if _, err := ToUTM(polar); !errors.Is(err, ErrOutsideUTMRange) {
		t.Errorf("expected ErrOutsideUTMRange, got %v", err)
	}
}
