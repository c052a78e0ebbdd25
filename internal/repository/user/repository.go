package user

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists and fetches shoppers.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateShipping overwrites the profile shipping fields wholesale.
	UpdateShipping(ctx context.Context, id string, s domain.ShippingDetails) error
}
