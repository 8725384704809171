package geospatial

import "math"

const (
	// EarthRadius is the WGS 84 semi-major axis used by EPSG:3857, in meters.
	EarthRadius = 6378137.0

	// MaxLatitude is where the square Web-Mercator world ends.
	MaxLatitude = 85.0511287798

	originShift = math.Pi * EarthRadius
)

// WorldExtent is the full projected extent of the base map.
var WorldExtent = ProjectedBoundingBox{
	West:  -originShift,
	South: -originShift,
	East:  originShift,
	North: originShift,
}

// ProjectedPoint is a point in spherical-Mercator meters.
type ProjectedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProjectedBoundingBox is a box in spherical-Mercator meters.
type ProjectedBoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Forward projects lon/lat degrees to spherical-Mercator meters.
// Latitude -90 maps to -Inf and +90 to a huge finite value far outside
// WorldExtent.
func Forward(lon, lat float64) (x, y float64) {
	x = lon * originShift / 180
	y = math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * originShift / 180
	return x, y
}

// Inverse converts spherical-Mercator meters back to lon/lat degrees.
func Inverse(x, y float64) (lon, lat float64) {
	lon = x / originShift * 180
	lat = y / originShift * 180
	lat = 180 / math.Pi * (2*math.Atan(math.Exp(lat*math.Pi/180)) - math.Pi/2)
	return lon, lat
}

// BoxForward projects the south-west and north-east corners independently.
// Only meaningful for boxes that stay clear of the poles.
func BoxForward(b BoundingBox) ProjectedBoundingBox {
	west, south := Forward(b.West, b.South)
	east, north := Forward(b.East, b.North)
	return ProjectedBoundingBox{West: west, South: south, East: east, North: north}
}

// BoxInverse is the corner-wise inverse of BoxForward.
func BoxInverse(p ProjectedBoundingBox) BoundingBox {
	west, south := Inverse(p.West, p.South)
	east, north := Inverse(p.East, p.North)
	return BoundingBox{West: west, South: south, East: east, North: north}
}

// BoxRing returns the closed ring ll, lr, ur, ul, ll outlining the box.
func BoxRing(p ProjectedBoundingBox) []ProjectedPoint {
	return []ProjectedPoint{
		{X: p.West, Y: p.South},
		{X: p.East, Y: p.South},
		{X: p.East, Y: p.North},
		{X: p.West, Y: p.North},
		{X: p.West, Y: p.South},
	}
}

// InverseRing converts every vertex of a projected geometry to lon/lat.
func InverseRing(points []ProjectedPoint) []GeoPoint {
	out := make([]GeoPoint, len(points))
	for i, p := range points {
		lon, lat := Inverse(p.X, p.Y)
		out[i] = GeoPoint{Lat: lat, Lon: lon}
	}
	return out
}

// Envelope returns the projected bounds of a set of vertices. ok is false
// for an empty set.
func Envelope(points []ProjectedPoint) (env ProjectedBoundingBox, ok bool) {
	if len(points) == 0 {
		return ProjectedBoundingBox{}, false
	}
	env = ProjectedBoundingBox{
		West: points[0].X, East: points[0].X,
		South: points[0].Y, North: points[0].Y,
	}
	for _, p := range points[1:] {
		env.West = math.Min(env.West, p.X)
		env.East = math.Max(env.East, p.X)
		env.South = math.Min(env.South, p.Y)
		env.North = math.Max(env.North, p.Y)
	}
	return env, true
}

// IsFinite reports whether every edge of the box is a finite number.
func (p ProjectedBoundingBox) IsFinite() bool {
	for _, v := range []float64{p.West, p.South, p.East, p.North} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// ClipToWorld limits the latitudes of a box to ±MaxLatitude so its
// projection stays inside WorldExtent.
func ClipToWorld(b BoundingBox) BoundingBox {
	b.South = math.Max(b.South, -MaxLatitude)
	b.North = math.Min(b.North, MaxLatitude)
	return b
}
