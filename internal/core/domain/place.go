package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Place is a named gazetteer extent (an ocean, sea or region).
type Place struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	Source    string      `json:"source"`
	Bounds    BoundingBox `json:"bounds"`
	CreatedAt time.Time   `json:"created_at"`
}

// GeocodeResult is what an address geocoder returns. Bounds may be
// missing or degenerate; Point is always set.
type GeocodeResult struct {
	Name   string      `json:"name"`
	Point  GeoPoint    `json:"point"`
	Bounds BoundingBox `json:"bounds"`
}
