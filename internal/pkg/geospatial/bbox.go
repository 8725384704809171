package geospatial

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// BoundingBox is an axis-aligned lon/lat box in decimal degrees.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Rejection reasons reported by InvalidReason.
const (
	ReasonNaN    = "nan"
	ReasonWidth  = "width"
	ReasonHeight = "height"
	ReasonRange  = "range"
)

// IsValid is the guard applied before a search box is drawn or submitted.
// Boxes crossing the antimeridian (west > east) are rejected like any
// other box with non-positive width.
func IsValid(west, south, east, north float64) bool {
	return InvalidReason(west, south, east, north) == ""
}

// InvalidReason returns the first rule a box breaks, or "" when it is valid.
func InvalidReason(west, south, east, north float64) string {
	switch {
	case math.IsNaN(west) || math.IsNaN(south) || math.IsNaN(east) || math.IsNaN(north):
		return ReasonNaN
	case west >= east:
		return ReasonWidth
	case south >= north:
		return ReasonHeight
	case west >= 180 || east <= -180 || south >= 90 || north <= -90:
		return ReasonRange
	}
	return ""
}

// Valid reports IsValid for the box.
func (b BoundingBox) Valid() bool {
	return IsValid(b.West, b.South, b.East, b.North)
}

// Width returns the width of the box in degrees.
func (b BoundingBox) Width() float64 {
	return b.East - b.West
}

// Height returns the height of the box in degrees.
func (b BoundingBox) Height() float64 {
	return b.North - b.South
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() GeoPoint {
	return GeoPoint{Lat: (b.South + b.North) / 2, Lon: (b.West + b.East) / 2}
}

// Complete renders the box as "north,west,south,east", the order the
// metadata form stores it in.
func (b BoundingBox) Complete() string {
	return strings.Join([]string{
		formatCoord(b.North), formatCoord(b.West), formatCoord(b.South), formatCoord(b.East),
	}, ",")
}

// PlaceText renders the box as the space separated "north west south east"
// text returned by the place lookup.
func (b BoundingBox) PlaceText() string {
	return strings.Join([]string{
		formatCoord(b.North), formatCoord(b.West), formatCoord(b.South), formatCoord(b.East),
	}, " ")
}

// ParsePlaceBounds reads "north west south east". Each field is read like
// a browser's parseFloat: the longest leading decimal literal counts and
// trailing text is ignored. Missing or non-numeric fields become NaN so the
// result fails IsValid.
func ParsePlaceBounds(s string) BoundingBox {
	parts := strings.Split(strings.TrimSpace(s), " ")
	field := func(i int) float64 {
		if i >= len(parts) {
			return math.NaN()
		}
		return ParseLeadingFloat(parts[i])
	}
	return BoundingBox{
		North: field(0),
		West:  field(1),
		South: field(2),
		East:  field(3),
	}
}

var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseLeadingFloat parses the decimal literal at the start of s, after
// leading whitespace, and returns NaN when there is none. "Infinity" is the
// only spelling of infinity; "inf" and "NaN" are not numbers here.
func ParseLeadingFloat(s string) float64 {
	lit := leadingFloat.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if lit == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(lit, "+-") {
	case "Infinity":
		if lit[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// CoverageIssues checks a box against the metadata coverage rules and
// returns the names of the offending fields, sorted. Longitudes may range
// over [-360, 360]; latitudes over [-90, 90] with south not above north.
func CoverageIssues(b BoundingBox) []string {
	issues := map[string]bool{}

	if !inRange(b.West, -360, 360) {
		issues["westernLongitude"] = true
	}
	if !inRange(b.East, -360, 360) {
		issues["easternLongitude"] = true
	}

	southOK := inRange(b.South, -90, 90)
	northOK := inRange(b.North, -90, 90)
	if southOK && northOK {
		if b.South > b.North {
			issues["southernLatitude"] = true
			issues["northernLatitude"] = true
		}
	} else {
		if !southOK {
			issues["southernLatitude"] = true
		}
		if !northOK {
			issues["northernLatitude"] = true
		}
	}

	out := make([]string, 0, len(issues))
	for name := range issues {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
