package ports

import (
	"context"

	"github.com/socat/omegeo/internal/core/domain"
)

// PlaceRepository persists gazetteer places.
type PlaceRepository interface {
	Upsert(ctx context.Context, place *domain.Place) error
	UpsertBatch(ctx context.Context, places []domain.Place) error
	// GetByName matches case-insensitively and returns domain.ErrNotFound
	// when nothing matches.
	GetByName(ctx context.Context, name string) (*domain.Place, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
	List(ctx context.Context) ([]domain.Place, error)
}
