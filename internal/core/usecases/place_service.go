package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/core/ports"
	"github.com/socat/omegeo/internal/pkg/geospatial"
	"github.com/socat/omegeo/internal/pkg/metrics"
	"github.com/socat/omegeo/internal/pkg/telemetry"
)

var tracer = otel.Tracer("github.com/socat/omegeo/internal/core/usecases")

const (
	placeTTL   = 600
	geocodeTTL = 3600
)

// PlaceService resolves place names and addresses to search boxes.
type PlaceService struct {
	places         ports.PlaceRepository
	geocoder       ports.Geocoder
	cache          ports.CacheService
	fallbackRadius float64
}

// NewPlaceService creates a new PlaceService. geocoder and cache may be
// nil. fallbackRadiusMeters sizes the box built around a geocoded point
// when the provider returns no usable extent.
func NewPlaceService(places ports.PlaceRepository, geocoder ports.Geocoder, cache ports.CacheService, fallbackRadiusMeters float64) *PlaceService {
	return &PlaceService{
		places:         places,
		geocoder:       geocoder,
		cache:          cache,
		fallbackRadius: fallbackRadiusMeters,
	}
}

// TitleCase lower-cases name and upper-cases the first letter of every
// word, so "north  ATLANTIC" becomes "North  Atlantic". Surrounding space
// is trimmed.
func TitleCase(name string) string {
	var b strings.Builder
	inWord := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if !inWord && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		inWord = unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		b.WriteRune(r)
	}
	return b.String()
}

// Lookup returns the gazetteer place with the given name.
func (s *PlaceService) Lookup(ctx context.Context, name string) (*domain.Place, error) {
	name = TitleCase(name)
	if name == "" {
		return nil, ErrEmptyPlaceName
	}

	ctx, span := tracer.Start(ctx, "PlaceService.Lookup")
	defer span.End()
	span.SetAttributes(telemetry.AttrPlaceName.String(name))

	cacheKey := "places:name:" + name
	var cached domain.Place
	if s.cacheGet(ctx, cacheKey, &cached) {
		metrics.PlaceLookups.WithLabelValues("cache").Inc()
		return &cached, nil
	}

	place, err := s.places.GetByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.PlaceLookups.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrPlaceNotFound, name)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository lookup failed")
		metrics.PlaceLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup place %q: %w", name, err)
	}
	metrics.PlaceLookups.WithLabelValues("found").Inc()

	s.cacheSet(ctx, cacheKey, place, placeTTL)
	return place, nil
}

// LookupLegacy returns the place bounds as "north west south east" text.
func (s *PlaceService) LookupLegacy(ctx context.Context, name string) (string, error) {
	place, err := s.Lookup(ctx, name)
	if err != nil {
		return "", err
	}
	return place.Bounds.PlaceText(), nil
}

// Search performs fuzzy search on place names.
func (s *PlaceService) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.places.Search(ctx, query, limit)
}

// List returns every gazetteer place ordered by name.
func (s *PlaceService) List(ctx context.Context) ([]domain.Place, error) {
	return s.places.List(ctx)
}

// Geocode resolves a free-form address to a place. When the provider's
// extent fails validation a box of the fallback radius around the point is
// used instead.
func (s *PlaceService) Geocode(ctx context.Context, address string) (*domain.Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}
	if s.geocoder == nil {
		return nil, errors.New("geocoder not configured")
	}

	ctx, span := tracer.Start(ctx, "PlaceService.Geocode")
	defer span.End()
	span.SetAttributes(telemetry.AttrGeocodeAddress.String(address))

	cacheKey := "geocode:" + strings.ToLower(address)
	var cached domain.Place
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	start := time.Now()
	res, err := s.geocoder.Geocode(ctx, address)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.GeocodeDuration.WithLabelValues("not_found").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", ErrPlaceNotFound, address)
	}
	if err != nil {
		metrics.GeocodeDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoder failed")
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	metrics.GeocodeDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	bounds := res.Bounds
	if !bounds.Valid() {
		bounds = geospatial.BoxAround(res.Point, s.fallbackRadius)
		span.SetAttributes(telemetry.AttrGeocodeFallback.Bool(true))
	}

	place := &domain.Place{
		Name:      res.Name,
		Slug:      Slugify(res.Name),
		Source:    SourceGeocoder,
		Bounds:    bounds,
		CreatedAt: time.Now().UTC(),
	}
	s.cacheSet(ctx, cacheKey, place, geocodeTTL)
	return place, nil
}

func (s *PlaceService) cacheGet(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *PlaceService) cacheSet(ctx context.Context, key string, v any, ttlSeconds int) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, ttlSeconds)
	}
}

// Slugify turns "North Atlantic Ocean" into "north-atlantic-ocean".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
