package domain

type NotificationKind string

const (
	NotificationTradeCreated  NotificationKind = "trade.created"
	NotificationTradeAccepted NotificationKind = "trade.accepted"
	NotificationTradeDeclined NotificationKind = "trade.declined"
)

// Notification is the event published to the mail-dispatch queue on every
// trade lifecycle transition. Delivery is at-least-once and fire-and-forget.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	TradeID    string           `json:"trade_id"`
	Recipients []string         `json:"recipients"`
}
