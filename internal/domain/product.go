package domain

import "time"

type Product struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	SalePriceCents *int64    `json:"salePriceCents,omitempty"`
	Currency       string    `json:"currency"`
	Images         []string  `json:"images,omitempty"`
	Sizes          []string  `json:"sizes,omitempty"`
	Stock          int       `json:"stock"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EffectiveUnitPriceCents returns the sale price when present and strictly
// lower than the list price, else the list price.
func (p Product) EffectiveUnitPriceCents() int64 {
	if p.SalePriceCents != nil && *p.SalePriceCents > 0 && *p.SalePriceCents < p.PriceCents {
		return *p.SalePriceCents
	}
	return p.PriceCents
}
