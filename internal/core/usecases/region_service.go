package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/core/ports"
	"github.com/socat/omegeo/internal/pkg/geospatial"
	"github.com/socat/omegeo/internal/pkg/logging"
	"github.com/socat/omegeo/internal/pkg/metrics"
	"github.com/socat/omegeo/internal/pkg/telemetry"
)

// Region sources.
const (
	SourceMap      = "map"
	SourcePlace    = "place"
	SourceGeocoder = "geocoder"
	SourceForm     = "form"
)

// RegionService validates and draws search regions.
type RegionService struct {
	events ports.EventPublisher
	now    func() time.Time
}

// NewRegionService creates a new RegionService. events may be nil, in
// which case drawn regions are not published.
func NewRegionService(events ports.EventPublisher) *RegionService {
	return &RegionService{events: events, now: time.Now}
}

// Validate reports whether b may be drawn.
func (s *RegionService) Validate(b domain.BoundingBox) bool {
	return b.Valid()
}

// RejectReason returns why Draw would refuse b, or "" when it can be
// drawn. Besides the guard, a box whose projection is not finite (a
// longitude so large that the meters overflow) is rejected as out of range.
func (s *RegionService) RejectReason(b domain.BoundingBox) string {
	if reason := geospatial.InvalidReason(b.West, b.South, b.East, b.North); reason != "" {
		return reason
	}
	if !geospatial.BoxForward(geospatial.ClipToWorld(b)).IsFinite() {
		return geospatial.ReasonRange
	}
	return ""
}

// Draw builds the map geometry for b and publishes it. Boxes RejectReason
// refuses are a silent no-op: ok is false and nothing is published.
func (s *RegionService) Draw(ctx context.Context, b domain.BoundingBox, source string) (region *domain.SearchRegion, ok bool) {
	if reason := s.RejectReason(b); reason != "" {
		metrics.RegionsRejected.WithLabelValues(reason).Inc()
		return nil, false
	}
	if source == "" {
		source = SourceMap
	}

	projected := geospatial.BoxForward(geospatial.ClipToWorld(b))
	width, height := b.Dimensions()
	region = &domain.SearchRegion{
		ID:           uuid.NewString(),
		Source:       source,
		Bounds:       b,
		Projected:    projected,
		Ring:         geospatial.BoxRing(projected),
		Complete:     b.Complete(),
		WidthMeters:  width,
		HeightMeters: height,
		CreatedAt:    s.now().UTC(),
	}
	metrics.RegionsDrawn.WithLabelValues(source).Inc()

	ctx, span := tracer.Start(ctx, "RegionService.Draw")
	defer span.End()
	span.SetAttributes(telemetry.AttrRegionID.String(region.ID), telemetry.AttrRegionSource.String(source))

	if s.events != nil {
		if err := s.events.PublishRegion(ctx, region); err != nil {
			span.RecordError(err)
			metrics.RegionPublishErrors.Inc()
			logging.FromContext(ctx).Warn("publish region failed", "region_id", region.ID, "error", err)
		}
	}
	return region, true
}

// FromPolygon converts a drawn polygon back to lon/lat vertices and the
// lon/lat bounds of its projected envelope.
func (s *RegionService) FromPolygon(points []domain.ProjectedPoint) (*domain.PolygonArea, error) {
	if len(points) < 3 {
		return nil, ErrTooFewVertices
	}
	env, _ := geospatial.Envelope(points)
	metrics.Conversions.WithLabelValues("polygon_inverse").Inc()
	return &domain.PolygonArea{
		Vertices: geospatial.InverseRing(points),
		Bounds:   geospatial.BoxInverse(env),
	}, nil
}

// Coverage converts the DMS edges of a cruise to decimal bounds and lists
// the fields that break the coverage rules.
func (s *RegionService) Coverage(b domain.BoundsDMS) (domain.BoundingBox, []string) {
	bounds := boundsFromDMS(b)
	return bounds, geospatial.CoverageIssues(bounds)
}
