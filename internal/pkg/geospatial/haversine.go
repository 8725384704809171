package geospatial

import "math"

// earthMeanRadiusKm is used for distances only; projection uses EarthRadius.
const earthMeanRadiusKm = 6371.0

const metersPerDegree = 111320.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthMeanRadiusKm * c * 1000
}

// BoxAround returns a box of the given radius around a point, clamped to
// the valid lon/lat range.
func BoxAround(center GeoPoint, radiusMeters float64) BoundingBox {
	latDelta := radiusMeters / metersPerDegree
	lonDelta := 180.0
	if cos := math.Cos(toRad(center.Lat)); cos > 1e-9 {
		lonDelta = math.Min(180, radiusMeters/(metersPerDegree*cos))
	}

	return BoundingBox{
		West:  math.Max(-180, center.Lon-lonDelta),
		South: math.Max(-90, center.Lat-latDelta),
		East:  math.Min(180, center.Lon+lonDelta),
		North: math.Min(90, center.Lat+latDelta),
	}
}

// Dimensions returns the ground width and height of the box in meters.
// The width is measured along the central parallel over the full lon span,
// so boxes wider than 180 degrees are not measured the short way round.
func (b BoundingBox) Dimensions() (widthMeters, heightMeters float64) {
	mid := b.Center()
	widthMeters = toRad(b.Width()) * earthMeanRadiusKm * 1000 * math.Cos(toRad(mid.Lat))
	heightMeters = Haversine(b.South, mid.Lon, b.North, mid.Lon)
	return widthMeters, heightMeters
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
