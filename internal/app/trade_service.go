package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/clock"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
)

type TradeRepository interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	ListInventory(ctx context.Context, userID string) ([]domain.OwnedItem, error)
	CreateTrade(ctx context.Context, trade domain.TradeOffer) error
	AppendTradeHistory(ctx context.Context, userID, tradeID string) error
	GetTrade(ctx context.Context, id string) (domain.TradeOffer, error)
	ListTradesByUser(ctx context.Context, userID string, status *domain.TradeStatus) ([]domain.TradeOffer, error)
	// TransferItem atomically re-homes an item, reporting false when the item
	// is no longer held by fromUserID.
	TransferItem(ctx context.Context, itemID, fromUserID, toUserID string) (bool, error)
	// FinalizeTrade flips a pending trade to a terminal status. It must fail
	// with domain.ErrTradeNotPending when the trade already left pending, so a
	// concurrent second finalize loses rather than overwrites.
	FinalizeTrade(ctx context.Context, tradeID string, status domain.TradeStatus) error
}

// Notifier is the one-way event sink consumed by the mail dispatcher.
// Implementations must not surface delivery failures to the trade caller.
type Notifier interface {
	Publish(ctx context.Context, n domain.Notification)
}

type TradeService struct {
	repo     TradeRepository
	notifier Notifier
	clock    clock.Clock
	strict   bool
}

func NewTradeService(repo TradeRepository, notifier Notifier, clk clock.Clock, opts ...TradeServiceOption) *TradeService {
	svc := &TradeService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type TradeServiceOption func(*TradeService)

// WithStrictTransfer makes acceptance fail with ErrItemUnavailable when any
// snapshot item has left the live inventory, instead of skipping it.
func WithStrictTransfer() TradeServiceOption {
	return func(s *TradeService) {
		s.strict = true
	}
}

type CreateTradeInput struct {
	OffererID       string
	ReceiverID      string
	Message         string
	OffererItemIDs  []string
	ReceiverItemIDs []string
}

func (s *TradeService) Create(ctx context.Context, in CreateTradeInput) (domain.TradeOffer, error) {
	if in.OffererID == in.ReceiverID {
		return domain.TradeOffer{}, domain.ErrSelfTrade
	}

	offerer, err := s.repo.GetUser(ctx, in.OffererID)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	receiver, err := s.repo.GetUser(ctx, in.ReceiverID)
	if err != nil {
		return domain.TradeOffer{}, err
	}

	offererInventory, err := s.repo.ListInventory(ctx, offerer.ID)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	offererItems, err := domain.MatchOwnedItems(offererInventory, in.OffererItemIDs)
	if err != nil {
		return domain.TradeOffer{}, err
	}

	receiverInventory, err := s.repo.ListInventory(ctx, receiver.ID)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	receiverItems, err := domain.MatchOwnedItems(receiverInventory, in.ReceiverItemIDs)
	if err != nil {
		return domain.TradeOffer{}, err
	}

	trade := domain.TradeOffer{
		ID:            newID(),
		Status:        domain.TradeStatusPending,
		Offerer:       offerer.ID,
		Receiver:      receiver.ID,
		Message:       in.Message,
		OffererItems:  offererItems,
		ReceiverItems: receiverItems,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.repo.CreateTrade(ctx, trade); err != nil {
		return domain.TradeOffer{}, err
	}
	// The trade row is committed from here on; history writes that fail leave
	// a retriable partial state, not a validation failure.
	if err := s.repo.AppendTradeHistory(ctx, offerer.ID, trade.ID); err != nil {
		return domain.TradeOffer{}, partialFailure(fmt.Errorf("append offerer history: %w", err))
	}
	if err := s.repo.AppendTradeHistory(ctx, receiver.ID, trade.ID); err != nil {
		return domain.TradeOffer{}, partialFailure(fmt.Errorf("append receiver history: %w", err))
	}

	s.notifier.Publish(ctx, domain.Notification{
		Kind:       domain.NotificationTradeCreated,
		TradeID:    trade.ID,
		Recipients: []string{offerer.Email, receiver.Email},
	})

	return trade, nil
}

func (s *TradeService) Accept(ctx context.Context, tradeID, actorID string) (domain.TradeOffer, error) {
	trade, err := s.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	if trade.Status != domain.TradeStatusPending {
		return domain.TradeOffer{}, domain.ErrTradeNotPending
	}
	if trade.Receiver != actorID {
		return domain.TradeOffer{}, domain.ErrNotTradeReceiver
	}

	offerer, err := s.repo.GetUser(ctx, trade.Offerer)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	receiver, err := s.repo.GetUser(ctx, trade.Receiver)
	if err != nil {
		return domain.TradeOffer{}, err
	}

	if s.strict {
		if err := s.checkItemsStillOwned(ctx, trade); err != nil {
			return domain.TradeOffer{}, err
		}
	}

	// Inventories move first, status flips last. A crash in between leaves the
	// trade pending with transfers already applied, which is safe to retry:
	// TransferItem is a no-op for items the offerer no longer holds.
	mutated := false
	for _, item := range trade.OffererItems {
		moved, err := s.repo.TransferItem(ctx, item.ID, trade.Offerer, trade.Receiver)
		if err != nil {
			return domain.TradeOffer{}, transferError(mutated, fmt.Errorf("transfer item %s: %w", item.ID, err))
		}
		mutated = mutated || moved
	}
	for _, item := range trade.ReceiverItems {
		moved, err := s.repo.TransferItem(ctx, item.ID, trade.Receiver, trade.Offerer)
		if err != nil {
			return domain.TradeOffer{}, transferError(mutated, fmt.Errorf("transfer item %s: %w", item.ID, err))
		}
		mutated = mutated || moved
	}

	if err := s.repo.FinalizeTrade(ctx, trade.ID, domain.TradeStatusAccepted); err != nil {
		if errors.Is(err, domain.ErrTradeNotPending) || errors.Is(err, domain.ErrTradeNotFound) {
			return domain.TradeOffer{}, err
		}
		return domain.TradeOffer{}, transferError(mutated, fmt.Errorf("finalize trade: %w", err))
	}
	trade.Status = domain.TradeStatusAccepted

	s.notifier.Publish(ctx, domain.Notification{
		Kind:       domain.NotificationTradeAccepted,
		TradeID:    trade.ID,
		Recipients: []string{offerer.Email, receiver.Email},
	})

	return trade, nil
}

func (s *TradeService) Decline(ctx context.Context, tradeID, actorID string) (domain.TradeOffer, error) {
	trade, err := s.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	if trade.Status != domain.TradeStatusPending {
		return domain.TradeOffer{}, domain.ErrTradeNotPending
	}
	if trade.Receiver != actorID {
		return domain.TradeOffer{}, domain.ErrNotTradeReceiver
	}

	offerer, err := s.repo.GetUser(ctx, trade.Offerer)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	receiver, err := s.repo.GetUser(ctx, trade.Receiver)
	if err != nil {
		return domain.TradeOffer{}, err
	}

	if err := s.repo.FinalizeTrade(ctx, trade.ID, domain.TradeStatusDeclined); err != nil {
		return domain.TradeOffer{}, err
	}
	trade.Status = domain.TradeStatusDeclined

	s.notifier.Publish(ctx, domain.Notification{
		Kind:       domain.NotificationTradeDeclined,
		TradeID:    trade.ID,
		Recipients: []string{offerer.Email, receiver.Email},
	})

	return trade, nil
}

func (s *TradeService) Get(ctx context.Context, tradeID string) (domain.TradeOffer, error) {
	return s.repo.GetTrade(ctx, tradeID)
}

func (s *TradeService) ListForUser(ctx context.Context, userID string, status *domain.TradeStatus) ([]domain.TradeOffer, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListTradesByUser(ctx, userID, status)
}

func (s *TradeService) checkItemsStillOwned(ctx context.Context, trade domain.TradeOffer) error {
	offererInventory, err := s.repo.ListInventory(ctx, trade.Offerer)
	if err != nil {
		return err
	}
	receiverInventory, err := s.repo.ListInventory(ctx, trade.Receiver)
	if err != nil {
		return err
	}
	for _, item := range trade.OffererItems {
		if !inventoryContains(offererInventory, item.ID) {
			return fmt.Errorf("%w: %s", domain.ErrItemUnavailable, item.ID)
		}
	}
	for _, item := range trade.ReceiverItems {
		if !inventoryContains(receiverInventory, item.ID) {
			return fmt.Errorf("%w: %s", domain.ErrItemUnavailable, item.ID)
		}
	}
	return nil
}

func inventoryContains(inventory []domain.OwnedItem, itemID string) bool {
	for _, item := range inventory {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

func partialFailure(cause error) error {
	return fmt.Errorf("%w: %w", domain.ErrPartialFailure, cause)
}

// transferError wraps the cause as a partial failure once any inventory write
// has committed; before that the operation had no side effects.
func transferError(mutated bool, cause error) error {
	if mutated {
		return partialFailure(cause)
	}
	return cause
}
