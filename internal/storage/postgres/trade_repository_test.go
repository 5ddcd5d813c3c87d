package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/testutil"
)

func TestTradeRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewTradeRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetUser returns user or ErrUserNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID := testutil.InsertUser(t, ctx, pool, "alice", "alice@example.com")

		user, err := repo.GetUser(ctx, userID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != userID || user.Username != "alice" {
			t.Fatalf("unexpected user: %+v", user)
		}

		if _, err := repo.GetUser(ctx, "00000000-0000-0000-0000-000000000001"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		if _, err := repo.GetUser(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("CreateTrade persists snapshots and GetTrade round-trips them", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		aliceID := testutil.InsertUser(t, ctx, pool, "alice", "alice@example.com")
		bobID := testutil.InsertUser(t, ctx, pool, "bob", "bob@example.com")
		catalogID := testutil.InsertCatalogEntry(t, ctx, pool, "Crash Bandicoot")
		itemID := testutil.InsertItem(t, ctx, pool, catalogID, "Crash Bandicoot", aliceID)
		bobItemID := testutil.InsertItem(t, ctx, pool, catalogID, "Crash Bandicoot", bobID)

		aliceInv, err := repo.ListInventory(ctx, aliceID)
		if err != nil || len(aliceInv) != 1 {
			t.Fatalf("list alice inventory: %v %v", aliceInv, err)
		}
		bobInv, err := repo.ListInventory(ctx, bobID)
		if err != nil || len(bobInv) != 1 {
			t.Fatalf("list bob inventory: %v %v", bobInv, err)
		}

		trade := domain.TradeOffer{
			ID:            "a3a1f2a0-0000-4000-8000-000000000001",
			Status:        domain.TradeStatusPending,
			Offerer:       aliceID,
			Receiver:      bobID,
			Message:       "swap?",
			OffererItems:  aliceInv,
			ReceiverItems: bobInv,
		}
		if err := repo.CreateTrade(ctx, trade); err != nil {
			t.Fatalf("create trade: %v", err)
		}

		got, err := repo.GetTrade(ctx, trade.ID)
		if err != nil {
			t.Fatalf("get trade: %v", err)
		}
		if got.Status != domain.TradeStatusPending || got.Offerer != aliceID || got.Receiver != bobID {
			t.Fatalf("unexpected trade: %+v", got)
		}
		if len(got.OffererItems) != 1 || got.OffererItems[0].ID != itemID {
			t.Fatalf("expected offerer snapshot [%s], got %+v", itemID, got.OffererItems)
		}
		if len(got.ReceiverItems) != 1 || got.ReceiverItems[0].ID != bobItemID {
			t.Fatalf("expected receiver snapshot [%s], got %+v", bobItemID, got.ReceiverItems)
		}

		if _, err := repo.GetTrade(ctx, "00000000-0000-0000-0000-000000000009"); !errors.Is(err, domain.ErrTradeNotFound) {
			t.Fatalf("expected ErrTradeNotFound, got %v", err)
		}
	})

	t.Run("AppendTradeHistory is idempotent and feeds ListTradesByUser", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		aliceID := testutil.InsertUser(t, ctx, pool, "alice", "alice@example.com")
		bobID := testutil.InsertUser(t, ctx, pool, "bob", "bob@example.com")
		tradeID := testutil.InsertTrade(t, ctx, pool, domain.TradeOffer{
			Status:        domain.TradeStatusPending,
			Offerer:       aliceID,
			Receiver:      bobID,
			OffererItems:  []domain.OwnedItem{},
			ReceiverItems: []domain.OwnedItem{},
		})

		if err := repo.AppendTradeHistory(ctx, aliceID, tradeID); err != nil {
			t.Fatalf("append history: %v", err)
		}
		if err := repo.AppendTradeHistory(ctx, aliceID, tradeID); err != nil {
			t.Fatalf("expected idempotent append, got %v", err)
		}

		trades, err := repo.ListTradesByUser(ctx, aliceID, nil)
		if err != nil {
			t.Fatalf("list trades: %v", err)
		}
		if len(trades) != 1 || trades[0].ID != tradeID {
			t.Fatalf("expected [%s], got %+v", tradeID, trades)
		}

		declined := domain.TradeStatusDeclined
		trades, err = repo.ListTradesByUser(ctx, aliceID, &declined)
		if err != nil {
			t.Fatalf("list trades filtered: %v", err)
		}
		if len(trades) != 0 {
			t.Fatalf("expected no declined trades, got %d", len(trades))
		}
	})

	t.Run("TransferItem moves ownership exactly once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		aliceID := testutil.InsertUser(t, ctx, pool, "alice", "alice@example.com")
		bobID := testutil.InsertUser(t, ctx, pool, "bob", "bob@example.com")
		catalogID := testutil.InsertCatalogEntry(t, ctx, pool, "Sonic")
		itemID := testutil.InsertItem(t, ctx, pool, catalogID, "Sonic", aliceID)

		moved, err := repo.TransferItem(ctx, itemID, aliceID, bobID)
		if err != nil {
			t.Fatalf("transfer: %v", err)
		}
		if !moved {
			t.Fatalf("expected transfer to apply")
		}

		// Second attempt finds the item gone from alice's inventory: skip.
		moved, err = repo.TransferItem(ctx, itemID, aliceID, bobID)
		if err != nil {
			t.Fatalf("retry transfer: %v", err)
		}
		if moved {
			t.Fatalf("expected retry to be a no-op")
		}

		bobInv, err := repo.ListInventory(ctx, bobID)
		if err != nil {
			t.Fatalf("list inventory: %v", err)
		}
		if len(bobInv) != 1 || bobInv[0].ID != itemID {
			t.Fatalf("expected bob to own %s, got %+v", itemID, bobInv)
		}
		if bobInv[0].Owner != bobID {
			t.Fatalf("expected owner %s, got %s", bobID, bobInv[0].Owner)
		}
		if len(bobInv[0].OwnerHistory) != 2 || bobInv[0].OwnerHistory[1] != bobID {
			t.Fatalf("expected history to append %s, got %v", bobID, bobInv[0].OwnerHistory)
		}
	})

	t.Run("transferred item lands at the end of the receiving inventory", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		aliceID := testutil.InsertUser(t, ctx, pool, "alice", "alice@example.com")
		bobID := testutil.InsertUser(t, ctx, pool, "bob", "bob@example.com")
		catalogID := testutil.InsertCatalogEntry(t, ctx, pool, "Spyro")
		movedID := testutil.InsertItem(t, ctx, pool, catalogID, "Spyro", aliceID)
		keptID := testutil.InsertItem(t, ctx, pool, catalogID, "Spyro", bobID)

		if _, err := repo.TransferItem(ctx, movedID, aliceID, bobID); err != nil {
			t.Fatalf("transfer: %v", err)
		}

		bobInv, err := repo.ListInventory(ctx, bobID)
		if err != nil {
			t.Fatalf("list inventory: %v", err)
		}
		if len(bobInv) != 2 || bobInv[0].ID != keptID || bobInv[1].ID != movedID {
			t.Fatalf("expected [%s %s], got %+v", keptID, movedID, bobInv)
		}
	})

	t.Run("FinalizeTrade is compare-and-set on pending", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		aliceID := testutil.InsertUser(t, ctx, pool, "alice", "alice@example.com")
		bobID := testutil.InsertUser(t, ctx, pool, "bob", "bob@example.com")
		tradeID := testutil.InsertTrade(t, ctx, pool, domain.TradeOffer{
			Status:        domain.TradeStatusPending,
			Offerer:       aliceID,
			Receiver:      bobID,
			OffererItems:  []domain.OwnedItem{},
			ReceiverItems: []domain.OwnedItem{},
		})

		if err := repo.FinalizeTrade(ctx, tradeID, domain.TradeStatusAccepted); err != nil {
			t.Fatalf("finalize: %v", err)
		}

		err := repo.FinalizeTrade(ctx, tradeID, domain.TradeStatusDeclined)
		if !errors.Is(err, domain.ErrTradeNotPending) {
			t.Fatalf("expected ErrTradeNotPending, got %v", err)
		}

		got, err := repo.GetTrade(ctx, tradeID)
		if err != nil {
			t.Fatalf("get trade: %v", err)
		}
		if got.Status != domain.TradeStatusAccepted {
			t.Fatalf("expected accepted to stick, got %s", got.Status)
		}

		err = repo.FinalizeTrade(ctx, "00000000-0000-0000-0000-000000000002", domain.TradeStatusAccepted)
		if !errors.Is(err, domain.ErrTradeNotFound) {
			t.Fatalf("expected ErrTradeNotFound, got %v", err)
		}
	})
}
