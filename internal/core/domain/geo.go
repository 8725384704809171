package domain

import "github.com/socat/omegeo/internal/pkg/geospatial"

// Coordinate value types live with the formulas in the geospatial package.
type (
	GeoPoint             = geospatial.GeoPoint
	BoundingBox          = geospatial.BoundingBox
	ProjectedPoint       = geospatial.ProjectedPoint
	ProjectedBoundingBox = geospatial.ProjectedBoundingBox
	DMS                  = geospatial.DMS
	Hemisphere           = geospatial.Hemisphere
	Axis                 = geospatial.Axis
)

// BoundsDMS holds the four coverage edges of a cruise as DMS values, each
// with its own hemisphere.
type BoundsDMS struct {
	West  DMS `json:"west"`
	East  DMS `json:"east"`
	South DMS `json:"south"`
	North DMS `json:"north"`
}

// PolygonArea is a drawn polygon converted back to lon/lat.
type PolygonArea struct {
	Vertices []GeoPoint  `json:"vertices"`
	Bounds   BoundingBox `json:"bounds"`
}
