package domain

import "time"

// CatalogEntry is the immutable description of a game shared by every copy.
type CatalogEntry struct {
	ID          string
	Name        string
	Publisher   string
	ReleaseDate time.Time
	Platforms   []string
	Tags        []string
}

// OwnedItem is a single physical copy tied to exactly one current owner.
// OwnerHistory starts with the first owner and gains the new owner's id on
// every transfer, oldest first.
type OwnedItem struct {
	ID           string    `json:"id"`
	CatalogRef   string    `json:"catalog_ref"`
	Name         string    `json:"name"`
	Condition    string    `json:"condition"`
	Owner        string    `json:"owner"`
	OwnerHistory []string  `json:"owner_history"`
	AcquiredAt   time.Time `json:"acquired_at"`
}
