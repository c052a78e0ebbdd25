package order

import (
	"context"

	"storefront/internal/domain"
)

// CreateInput carries everything written by the checkout transaction.
type CreateInput struct {
	Number        string
	UserID        string
	TotalCents    int64
	Currency      string
	Shipping      domain.ShippingDetails
	Notes         string
	PaymentRef    string
	CheckoutToken string
	Lines         []LineInput
}

type LineInput struct {
	ProductID      string
	ProductName    string
	UnitPriceCents int64
	Quantity       int
	Size           string
}

type Repository interface {
	// Create inserts the order with its lines and clears the user's cart,
	// all in one transaction. A duplicate checkout token returns
	// ErrAlreadyExists with nothing written; a duplicate order number is
	// surfaced the same way for the caller to regenerate.
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByCheckoutToken(ctx context.Context, token string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetTrackingNumber(ctx context.Context, id, trackingNumber string) error
}
