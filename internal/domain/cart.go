package domain

import "time"

// CartLine is one (identity, product, size) demand entry. At most one line
// exists per (owner, product, size); repeat adds increment the quantity.
type CartLine struct {
	ID        string    `json:"id"`
	Owner     Identity  `json:"-"`
	ProductID string    `json:"productId"`
	Size      string    `json:"size,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItem is a cart line joined with current catalog data for display.
// Pricing here is informational; checkout re-prices from the catalog.
type CartItem struct {
	CartLine
	Product        Product `json:"product"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	TotalCents     int64   `json:"totalCents"`
}
