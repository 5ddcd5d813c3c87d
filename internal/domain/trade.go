package domain

import "time"

type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "pending"
	TradeStatusAccepted TradeStatus = "accepted"
	TradeStatusDeclined TradeStatus = "declined"
)

// ParseTradeStatus maps user input to a status, reporting whether it is known.
func ParseTradeStatus(s string) (TradeStatus, bool) {
	switch TradeStatus(s) {
	case TradeStatusPending, TradeStatusAccepted, TradeStatusDeclined:
		return TradeStatus(s), true
	}
	return "", false
}

// TradeOffer is a permanent ledger entry proposing an exchange of item sets
// between two users. OffererItems and ReceiverItems are snapshots captured at
// proposal time; once the offer leaves pending they are historical record, not
// live inventory state.
type TradeOffer struct {
	ID            string
	Status        TradeStatus
	Offerer       string
	Receiver      string
	Message       string
	OffererItems  []OwnedItem
	ReceiverItems []OwnedItem
	CreatedAt     time.Time
}
