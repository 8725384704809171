package ports

import (
	"context"

	"github.com/socat/omegeo/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRegion(ctx context.Context, region *domain.SearchRegion) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRegions(ctx context.Context, handler func(ctx context.Context, region *domain.SearchRegion) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Geocoder resolves free-form addresses to a point and, when the provider
// has one, an extent.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error)
}
