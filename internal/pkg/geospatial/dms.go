package geospatial

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Hemisphere is the N/S/E/W marker that carries the sign of a DMS value.
type Hemisphere string

const (
	North Hemisphere = "N"
	South Hemisphere = "S"
	East  Hemisphere = "E"
	West  Hemisphere = "W"
)

// Axis distinguishes latitudes from longitudes.
type Axis string

const (
	Latitude  Axis = "lat"
	Longitude Axis = "lon"
)

// ErrUnknownHemisphere is returned by ParseHemisphere for anything but N, S, E or W.
var ErrUnknownHemisphere = errors.New("unknown hemisphere")

// ErrUnknownAxis is returned by ParseAxis for anything but lat or lon.
var ErrUnknownAxis = errors.New("unknown axis")

// ParseHemisphere accepts N, S, E or W in any case.
func ParseHemisphere(s string) (Hemisphere, error) {
	switch h := Hemisphere(strings.ToUpper(strings.TrimSpace(s))); h {
	case North, South, East, West:
		return h, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHemisphere, s)
	}
}

// ParseAxis accepts "lat"/"latitude" and "lon"/"longitude".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lat", "latitude":
		return Latitude, nil
	case "lon", "lng", "longitude":
		return Longitude, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAxis, s)
	}
}

// Sign is -1 for the southern and western hemispheres, +1 otherwise.
func (h Hemisphere) Sign() float64 {
	if h == South || h == West {
		return -1
	}
	return 1
}

// Axis reports which axis the hemisphere belongs to.
func (h Hemisphere) Axis() Axis {
	if h == East || h == West {
		return Longitude
	}
	return Latitude
}

// DMS is a degree/minute/second triple. Degrees, Minutes and Seconds are
// magnitudes; the sign lives in Hemisphere.
type DMS struct {
	Degrees    int        `json:"degrees"`
	Minutes    int        `json:"minutes"`
	Seconds    float64    `json:"seconds"`
	Hemisphere Hemisphere `json:"hemisphere,omitempty"`
}

// ToDecimal returns degrees + minutes/60 + seconds/3600. No sign is applied
// and no range is checked.
func ToDecimal(degrees, minutes, seconds float64) float64 {
	return degrees + minutes/60 + seconds/3600
}

// ToDMS splits |decimal| into whole degrees, whole minutes and rounded
// seconds. Seconds can round up to 60; callers that need a canonical form
// must carry it themselves. The result has no hemisphere.
func ToDMS(decimal float64) DMS {
	abs := math.Abs(decimal)
	degrees := math.Floor(abs)
	minutesFloat := (abs - degrees) * 60
	minutes := math.Floor(minutesFloat)
	seconds := math.Round((minutesFloat - minutes) * 60)

	return DMS{
		Degrees: int(degrees),
		Minutes: int(minutes),
		Seconds: seconds,
	}
}

// Signed applies the hemisphere sign to the magnitude of v.
func Signed(v float64, h Hemisphere) float64 {
	return math.Abs(v) * h.Sign()
}

// HemisphereOf picks the hemisphere of a signed decimal value on the given
// axis. Negative zero counts as negative.
func HemisphereOf(decimal float64, axis Axis) Hemisphere {
	negative := math.Signbit(decimal)
	if axis == Longitude {
		if negative {
			return West
		}
		return East
	}
	if negative {
		return South
	}
	return North
}

// FromDecimal is ToDMS plus the hemisphere derived from the sign.
func FromDecimal(decimal float64, axis Axis) DMS {
	d := ToDMS(decimal)
	d.Hemisphere = HemisphereOf(decimal, axis)
	return d
}

// Decimal converts back to signed decimal degrees. A missing hemisphere
// is treated as positive.
func (d DMS) Decimal() float64 {
	return Signed(ToDecimal(float64(d.Degrees), float64(d.Minutes), d.Seconds), d.Hemisphere)
}

func (d DMS) String() string {
	return fmt.Sprintf("%d°%02d'%02g\"%s", d.Degrees, d.Minutes, d.Seconds, d.Hemisphere)
}
