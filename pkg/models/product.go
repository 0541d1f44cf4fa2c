package models

// Product is a single catalog entry. JSON field names match the shapes the
// storefront and admin UIs already consume.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Features    []string `json:"features"`
	Inventory   int      `json:"inventory"`
	Badge       string   `json:"badge"`
}
