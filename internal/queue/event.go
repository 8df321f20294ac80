// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// OrderPlacedEvent is published after a checkout transaction commits.  It
// carries enough information for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type OrderPlacedEvent struct {
    OrderID      uint64  `json:"order_id"`
    UserID       uint64  `json:"user_id"`
    CheckoutType string  `json:"checkout_type"` // buy_now | cart
    ItemCount    int     `json:"item_count"`
    TotalPrice   float64 `json:"total_price"`
    PlacedAt     string  `json:"placed_at"` // RFC3339
}
