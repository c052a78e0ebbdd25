package order

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

// Service covers order reads and the admin-driven status progression.
type Service struct {
	repo orderStore
}

type orderStore interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetTrackingNumber(ctx context.Context, id, trackingNumber string) error
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

// GetOwned returns the order only when it belongs to the requesting user;
// a foreign order yields ErrForbidden, a missing one ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return ord, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Progress moves the order to the next status, enforcing the lifecycle.
func (s *Service) Progress(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, next)
	}
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ord.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, ord.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	ord.Status = next
	return ord, nil
}

// SetTracking records the carrier tracking number on a shipped order.
func (s *Service) SetTracking(ctx context.Context, orderID, trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return fmt.Errorf("%w: trackingNumber required", domain.ErrInvalidInput)
	}
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.Status != domain.StatusShipped {
		return fmt.Errorf("%w: tracking requires a shipped order", domain.ErrInvalidTransition)
	}
	return s.repo.SetTrackingNumber(ctx, orderID, trackingNumber)
}
