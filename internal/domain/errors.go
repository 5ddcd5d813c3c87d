package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTradeNotFound        = errors.New("trade not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrOwnershipMismatch    = errors.New("no requested item owned by claimed party")
	ErrTradeNotPending      = errors.New("trade is not pending")
	ErrNotTradeReceiver     = errors.New("only the trade receiver may act on it")
	ErrSelfTrade            = errors.New("cannot trade with yourself")
	ErrItemUnavailable      = errors.New("traded item no longer in inventory")
	ErrPartialFailure       = errors.New("trade partially applied")
	ErrInvalidID            = errors.New("invalid id")
)
