package seed

import (
	"context"
	"fmt"
	"log"

	"storefront/internal/domain"
)

type productUpserter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

func cents(v int64) *int64 { return &v }

// Apply inserts a small demo catalog for manual testing. It is idempotent:
// products upsert by SKU.
func Apply(ctx context.Context, products productUpserter, logger *log.Logger) error {
	catalog := []domain.Product{
		{
			SKU:         "SF-TEE-CLASSIC",
			Name:        "Classic Tee",
			Description: "Heavyweight cotton tee in washed black",
			PriceCents:  50000,
			Currency:    "INR",
			Sizes:       []string{"S", "M", "L", "XL"},
			Images:      []string{"/static/products/classic-tee.jpg"},
			Stock:       120,
		},
		{
			SKU:            "SF-HOODIE-ZIP",
			Name:           "Zip Hoodie",
			Description:    "Fleece-lined zip hoodie",
			PriceCents:     120000,
			SalePriceCents: cents(100000),
			Currency:       "INR",
			Sizes:          []string{"M", "L", "XL"},
			Images:         []string{"/static/products/zip-hoodie.jpg"},
			Stock:          45,
		},
		{
			SKU:         "SF-CAP-SNAP",
			Name:        "Snapback Cap",
			Description: "Adjustable snapback, one size",
			PriceCents:  35000,
			Currency:    "INR",
			Images:      []string{"/static/products/snapback.jpg"},
			Stock:       200,
		},
		{
			SKU:            "SF-TOTE-CANVAS",
			Name:           "Canvas Tote",
			Description:    "Natural canvas tote bag",
			PriceCents:     25000,
			SalePriceCents: cents(19900),
			Currency:       "INR",
			Stock:          80,
		},
	}

	for _, p := range catalog {
		saved, err := products.Upsert(ctx, p)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
		logger.Printf("seeded product %s (%s)", saved.SKU, saved.ID)
	}

	return nil
}
