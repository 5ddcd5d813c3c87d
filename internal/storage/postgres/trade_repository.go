package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TradeRepository persists trade offers, the per-user trade history ledger and
// the inventory moves made on acceptance. Writes are deliberately not wrapped
// in a cross-entity transaction; the service orders them so a crash leaves a
// retriable state, and the status flip is a compare-and-set on the pending row.
type TradeRepository struct {
	pool *pgxpool.Pool
}

func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

func (r *TradeRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	return getUser(ctx, r.pool, id)
}

func (r *TradeRepository) ListInventory(ctx context.Context, userID string) ([]domain.OwnedItem, error) {
	return listInventory(ctx, r.pool, userID)
}

func (r *TradeRepository) CreateTrade(ctx context.Context, trade domain.TradeOffer) error {
	const stmt = `
INSERT INTO trades (id, status, offerer_id, receiver_id, message, offerer_items, receiver_items, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	offererItems, err := json.Marshal(trade.OffererItems)
	if err != nil {
		return fmt.Errorf("encode offerer items: %w", err)
	}
	receiverItems, err := json.Marshal(trade.ReceiverItems)
	if err != nil {
		return fmt.Errorf("encode receiver items: %w", err)
	}

	_, err = r.pool.Exec(ctx, stmt,
		trade.ID,
		trade.Status,
		trade.Offerer,
		trade.Receiver,
		trade.Message,
		offererItems,
		receiverItems,
		trade.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create trade: %w", err)
	}
	return nil
}

func (r *TradeRepository) AppendTradeHistory(ctx context.Context, userID, tradeID string) error {
	// ON CONFLICT keeps partial-failure retries idempotent.
	const stmt = `
INSERT INTO user_trades (user_id, trade_id)
VALUES ($1, $2)
ON CONFLICT (user_id, trade_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, stmt, userID, tradeID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("append trade history: %w", err)
	}
	return nil
}

func (r *TradeRepository) GetTrade(ctx context.Context, id string) (domain.TradeOffer, error) {
	const query = `
SELECT id, status, offerer_id, receiver_id, message, offerer_items, receiver_items, created_at
FROM trades
WHERE id = $1`

	trade, err := scanTrade(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.TradeOffer{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.TradeOffer{}, domain.ErrTradeNotFound
		}
		return domain.TradeOffer{}, fmt.Errorf("get trade: %w", err)
	}
	return trade, nil
}

func (r *TradeRepository) ListTradesByUser(ctx context.Context, userID string, status *domain.TradeStatus) ([]domain.TradeOffer, error) {
	const query = `
SELECT t.id, t.status, t.offerer_id, t.receiver_id, t.message, t.offerer_items, t.receiver_items, t.created_at
FROM trades t
JOIN user_trades ut ON ut.trade_id = t.id
WHERE ut.user_id = $1 AND ($2::text IS NULL OR t.status = $2)
ORDER BY t.created_at, t.id`

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.pool.Query(ctx, query, userID, statusArg)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.TradeOffer
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return trades, nil
}

func (r *TradeRepository) TransferItem(ctx context.Context, itemID, fromUserID, toUserID string) (bool, error) {
	// Single conditional update: the ownership check and the mutation commit
	// together, so a concurrent transfer of the same item can win at most once.
	// A fresh position places the item at the end of the receiving inventory.
	const stmt = `
UPDATE items
SET owner_id = $3, owner_history = owner_history || $4, position = nextval('item_position_seq')
WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, stmt, itemID, fromUserID, toUserID, toUserID)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("transfer item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TradeRepository) FinalizeTrade(ctx context.Context, tradeID string, status domain.TradeStatus) error {
	const stmt = `UPDATE trades SET status = $2 WHERE id = $1 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, stmt, tradeID, status)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("finalize trade: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the trade never existed or another finalize won.
	var current domain.TradeStatus
	err = r.pool.QueryRow(ctx, `SELECT status FROM trades WHERE id = $1`, tradeID).Scan(&current)
	if err == pgx.ErrNoRows {
		return domain.ErrTradeNotFound
	}
	if err != nil {
		return fmt.Errorf("finalize trade recheck: %w", err)
	}
	return domain.ErrTradeNotPending
}

func scanTrade(row pgx.Row) (domain.TradeOffer, error) {
	var (
		t             domain.TradeOffer
		offererItems  []byte
		receiverItems []byte
	)
	err := row.Scan(&t.ID, &t.Status, &t.Offerer, &t.Receiver, &t.Message, &offererItems, &receiverItems, &t.CreatedAt)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	if err := json.Unmarshal(offererItems, &t.OffererItems); err != nil {
		return domain.TradeOffer{}, fmt.Errorf("decode offerer items: %w", err)
	}
	if err := json.Unmarshal(receiverItems, &t.ReceiverItems); err != nil {
		return domain.TradeOffer{}, fmt.Errorf("decode receiver items: %w", err)
	}
	return t, nil
}
