package app

import (
	"context"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/clock"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
)

type InventoryRepository interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	InsertItem(ctx context.Context, item domain.OwnedItem) error
	// RemoveItem reports false when the item was not in the user's inventory;
	// that is not an error at this layer.
	RemoveItem(ctx context.Context, userID, itemID string) (bool, error)
	ListInventory(ctx context.Context, userID string) ([]domain.OwnedItem, error)
}

// CatalogLookup resolves a catalog reference to its immutable entry. The
// engine only needs existence and display name when minting an item snapshot.
type CatalogLookup interface {
	GetEntry(ctx context.Context, id string) (domain.CatalogEntry, error)
}

type InventoryService struct {
	repo    InventoryRepository
	catalog CatalogLookup
	clock   clock.Clock
}

func NewInventoryService(repo InventoryRepository, catalog CatalogLookup, clk clock.Clock) *InventoryService {
	return &InventoryService{
		repo:    repo,
		catalog: catalog,
		clock:   clk,
	}
}

type AddItemInput struct {
	OwnerID    string
	CatalogRef string
	Condition  string
}

func (s *InventoryService) AddItem(ctx context.Context, in AddItemInput) (domain.OwnedItem, error) {
	owner, err := s.repo.GetUser(ctx, in.OwnerID)
	if err != nil {
		return domain.OwnedItem{}, err
	}
	entry, err := s.catalog.GetEntry(ctx, in.CatalogRef)
	if err != nil {
		return domain.OwnedItem{}, err
	}

	item := domain.OwnedItem{
		ID:           newID(),
		CatalogRef:   entry.ID,
		Name:         entry.Name,
		Condition:    in.Condition,
		Owner:        owner.ID,
		OwnerHistory: []string{owner.ID},
		AcquiredAt:   s.clock.Now(),
	}
	if err := s.repo.InsertItem(ctx, item); err != nil {
		return domain.OwnedItem{}, err
	}
	return item, nil
}

func (s *InventoryService) RemoveItem(ctx context.Context, ownerID, itemID string) error {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return err
	}
	_, err := s.repo.RemoveItem(ctx, ownerID, itemID)
	return err
}

func (s *InventoryService) ListItems(ctx context.Context, ownerID string) ([]domain.OwnedItem, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListInventory(ctx, ownerID)
}
