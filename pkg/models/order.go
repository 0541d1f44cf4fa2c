package models

import (
	"time"
)

// Order is immutable once written: there is no update or delete path, and
// each item's unit price is frozen at checkout time regardless of later
// catalog edits.
type Order struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Items     []OrderItem    `json:"items"`
	Customer  map[string]any `json:"customer"`
	Payment   Payment        `json:"payment"`
	Total     float64        `json:"total"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type Payment struct {
	Method    string `json:"method"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
}
