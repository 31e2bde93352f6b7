package models

import "time"

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart lives in Redis keyed by user id; it is a working set, not a record
// of purchase. Checkout snapshots it into Order.Items.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
