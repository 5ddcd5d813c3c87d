package postgres

import (
	"context"
	"fmt"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository serves the read-only slice of the game catalog the trade
// engine needs: existence checks and display names for item snapshots.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) GetEntry(ctx context.Context, id string) (domain.CatalogEntry, error) {
	const query = `
SELECT id, name, publisher, release_date, platforms, tags
FROM catalog_entries
WHERE id = $1`

	var e domain.CatalogEntry
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&e.ID, &e.Name, &e.Publisher, &e.ReleaseDate, &e.Platforms, &e.Tags)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.CatalogEntry{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.CatalogEntry{}, domain.ErrCatalogEntryNotFound
		}
		return domain.CatalogEntry{}, fmt.Errorf("get catalog entry: %w", err)
	}
	return e, nil
}
