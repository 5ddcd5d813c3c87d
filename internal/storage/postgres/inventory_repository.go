package postgres

import (
	"context"
	"fmt"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	return getUser(ctx, r.pool, id)
}

func (r *InventoryRepository) InsertItem(ctx context.Context, item domain.OwnedItem) error {
	const stmt = `
INSERT INTO items (id, catalog_ref, name, condition, owner_id, owner_history, acquired_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		item.ID,
		item.CatalogRef,
		item.Name,
		item.Condition,
		item.Owner,
		item.OwnerHistory,
		item.AcquiredAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("insert item: duplicate id %s", item.ID)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *InventoryRepository) RemoveItem(ctx context.Context, userID, itemID string) (bool, error) {
	const stmt = `DELETE FROM items WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, stmt, itemID, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("remove item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *InventoryRepository) ListInventory(ctx context.Context, userID string) ([]domain.OwnedItem, error) {
	return listInventory(ctx, r.pool, userID)
}
