package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func getUser(ctx context.Context, pool *pgxpool.Pool, id string) (domain.User, error) {
	const query = `SELECT id, username, email, created_at FROM users WHERE id = $1`

	var u domain.User
	err := pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func listInventory(ctx context.Context, pool *pgxpool.Pool, userID string) ([]domain.OwnedItem, error) {
	const query = `
SELECT id, catalog_ref, name, condition, owner_id, owner_history, acquired_at
FROM items
WHERE owner_id = $1
ORDER BY position`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.OwnedItem
	for rows.Next() {
		var it domain.OwnedItem
		if err := rows.Scan(&it.ID, &it.CatalogRef, &it.Name, &it.Condition, &it.Owner, &it.OwnerHistory, &it.AcquiredAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}
