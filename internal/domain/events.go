package domain

import "time"

// StockUpdatedEvent is published after the remote inventory API has
// accepted a new quantity for an item.
type StockUpdatedEvent struct {
	UpdateID  string    `json:"update_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
