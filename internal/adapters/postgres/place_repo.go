package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/socat/omegeo/internal/core/domain"
)

const placeColumns = `id, name, slug, source, west, south, east, north, created_at`

// PlaceRepo implements ports.PlaceRepository with pgx.
type PlaceRepo struct {
	db *DB
}

// NewPlaceRepo creates a new PlaceRepo.
func NewPlaceRepo(db *DB) *PlaceRepo {
	return &PlaceRepo{db: db}
}

const upsertPlaceSQL = `
	INSERT INTO places (name, slug, source, west, south, east, north)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (slug) DO UPDATE
	SET name = EXCLUDED.name, source = EXCLUDED.source,
	    west = EXCLUDED.west, south = EXCLUDED.south,
	    east = EXCLUDED.east, north = EXCLUDED.north
`

// Upsert inserts or updates a single place keyed by slug.
func (r *PlaceRepo) Upsert(ctx context.Context, p *domain.Place) error {
	_, err := r.db.Pool.Exec(ctx, upsertPlaceSQL,
		p.Name, p.Slug, p.Source, p.Bounds.West, p.Bounds.South, p.Bounds.East, p.Bounds.North)
	return err
}

// UpsertBatch inserts many places using pgx.Batch.
func (r *PlaceRepo) UpsertBatch(ctx context.Context, places []domain.Place) error {
	if len(places) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range places {
		batch.Queue(upsertPlaceSQL,
			p.Name, p.Slug, p.Source, p.Bounds.West, p.Bounds.South, p.Bounds.East, p.Bounds.North)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range places {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByName returns the place whose name matches case-insensitively.
func (r *PlaceRepo) GetByName(ctx context.Context, name string) (*domain.Place, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+placeColumns+`
		FROM places WHERE lower(name) = lower($1)
		ORDER BY created_at
		LIMIT 1
	`, name)
	p, err := scanPlace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Search performs trigram similarity search on place names.
func (r *PlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places
		WHERE name %> $1 OR name ILIKE '%' || $1 || '%'
		ORDER BY similarity(name, $1) DESC, name
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	return collectPlaces(rows)
}

// List returns every place ordered by name.
func (r *PlaceRepo) List(ctx context.Context) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return collectPlaces(rows)
}

func scanPlace(row pgx.Row) (*domain.Place, error) {
	var p domain.Place
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Source,
		&p.Bounds.West, &p.Bounds.South, &p.Bounds.East, &p.Bounds.North,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPlaces(rows pgx.Rows) ([]domain.Place, error) {
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}
