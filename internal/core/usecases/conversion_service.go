package usecases

import (
	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/pkg/geospatial"
	"github.com/socat/omegeo/internal/pkg/metrics"
)

// ConversionService exposes the coordinate formulas to the transports and
// counts how often each one is used.
type ConversionService struct{}

// NewConversionService creates a new ConversionService.
func NewConversionService() *ConversionService {
	return &ConversionService{}
}

// ToDecimal converts a DMS triple to decimal degrees. An empty hemisphere
// leaves the result unsigned.
func (s *ConversionService) ToDecimal(degrees, minutes, seconds float64, h domain.Hemisphere) float64 {
	metrics.Conversions.WithLabelValues("to_decimal").Inc()
	v := geospatial.ToDecimal(degrees, minutes, seconds)
	if h == "" {
		return v
	}
	return geospatial.Signed(v, h)
}

// ToDMS splits a signed decimal value and picks its hemisphere on axis.
func (s *ConversionService) ToDMS(value float64, axis domain.Axis) domain.DMS {
	metrics.Conversions.WithLabelValues("to_dms").Inc()
	return geospatial.FromDecimal(value, axis)
}

// Forward projects a lon/lat point to Web-Mercator meters.
func (s *ConversionService) Forward(lon, lat float64) domain.ProjectedPoint {
	metrics.Conversions.WithLabelValues("forward").Inc()
	x, y := geospatial.Forward(lon, lat)
	return domain.ProjectedPoint{X: x, Y: y}
}

// Inverse converts a Web-Mercator point back to lon/lat.
func (s *ConversionService) Inverse(x, y float64) domain.GeoPoint {
	metrics.Conversions.WithLabelValues("inverse").Inc()
	lon, lat := geospatial.Inverse(x, y)
	return domain.GeoPoint{Lat: lat, Lon: lon}
}

// BoxForward projects both corners of a box.
func (s *ConversionService) BoxForward(b domain.BoundingBox) domain.ProjectedBoundingBox {
	metrics.Conversions.WithLabelValues("box_forward").Inc()
	return geospatial.BoxForward(b)
}

// BoxInverse converts both corners of a projected box.
func (s *ConversionService) BoxInverse(p domain.ProjectedBoundingBox) domain.BoundingBox {
	metrics.Conversions.WithLabelValues("box_inverse").Inc()
	return geospatial.BoxInverse(p)
}

// BoundsToDMS renders the four edges of a box as DMS fields.
func (s *ConversionService) BoundsToDMS(b domain.BoundingBox) domain.BoundsDMS {
	metrics.Conversions.WithLabelValues("bounds_to_dms").Inc()
	return boundsToDMS(b)
}

// BoundsFromDMS reassembles a box from its DMS edges.
func (s *ConversionService) BoundsFromDMS(b domain.BoundsDMS) domain.BoundingBox {
	metrics.Conversions.WithLabelValues("bounds_from_dms").Inc()
	return boundsFromDMS(b)
}

func boundsToDMS(b domain.BoundingBox) domain.BoundsDMS {
	return domain.BoundsDMS{
		West:  geospatial.FromDecimal(b.West, geospatial.Longitude),
		East:  geospatial.FromDecimal(b.East, geospatial.Longitude),
		South: geospatial.FromDecimal(b.South, geospatial.Latitude),
		North: geospatial.FromDecimal(b.North, geospatial.Latitude),
	}
}

func boundsFromDMS(b domain.BoundsDMS) domain.BoundingBox {
	return domain.BoundingBox{
		West:  b.West.Decimal(),
		South: b.South.Decimal(),
		East:  b.East.Decimal(),
		North: b.North.Decimal(),
	}
}
