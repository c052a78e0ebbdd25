package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

// Service implements the Cart Ledger operations for both authenticated
// users and anonymous sessions.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	AddLine(ctx context.Context, in cartrepo.AddLineInput) (*domain.CartLine, error)
	ListItems(ctx context.Context, owner domain.Identity) ([]domain.CartItem, error)
	CountQuantity(ctx context.Context, owner domain.Identity) (int, error)
	UpdateQuantity(ctx context.Context, owner domain.Identity, lineID string, quantity int) error
	RemoveLine(ctx context.Context, owner domain.Identity, lineID string) error
	Clear(ctx context.Context, owner domain.Identity) error
	MergeLines(ctx context.Context, userID string, items []cartrepo.MergeItem) (int, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

type AddLineInput struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

type MergeInput struct {
	Items []AddLineInput `json:"items"`
}

// AddLine validates the product and applies increment-if-exists semantics
// against the owner's ledger.
func (s *Service) AddLine(ctx context.Context, owner domain.Identity, in AddLineInput) (*domain.CartLine, error) {
	if owner.Zero() {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: product not found", domain.ErrInvalidInput)
		}
		return nil, err
	}
	return s.repo.AddLine(ctx, cartrepo.AddLineInput{
		Owner:     owner,
		ProductID: in.ProductID,
		Size:      strings.TrimSpace(in.Size),
		Quantity:  in.Quantity,
	})
}

// ListItems returns the owner's lines joined with current product data.
func (s *Service) ListItems(ctx context.Context, owner domain.Identity) ([]domain.CartItem, error) {
	if owner.Zero() {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListItems(ctx, owner)
}

// CountQuantity sums quantities across the owner's lines.
func (s *Service) CountQuantity(ctx context.Context, owner domain.Identity) (int, error) {
	if owner.Zero() {
		return 0, domain.ErrUnauthenticated
	}
	return s.repo.CountQuantity(ctx, owner)
}

// UpdateQuantity overwrites, not increments, the line's quantity.
func (s *Service) UpdateQuantity(ctx context.Context, owner domain.Identity, lineID string, quantity int) error {
	if owner.Zero() {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(lineID) == "" {
		return fmt.Errorf("%w: lineId required", domain.ErrInvalidInput)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	return s.repo.UpdateQuantity(ctx, owner, lineID, quantity)
}

// RemoveLine deletes a single owned line.
func (s *Service) RemoveLine(ctx context.Context, owner domain.Identity, lineID string) error {
	if owner.Zero() {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(lineID) == "" {
		return fmt.Errorf("%w: lineId required", domain.ErrInvalidInput)
	}
	return s.repo.RemoveLine(ctx, owner, lineID)
}

// Clear deletes all lines owned by the identity.
func (s *Service) Clear(ctx context.Context, owner domain.Identity) error {
	if owner.Zero() {
		return domain.ErrUnauthenticated
	}
	return s.repo.Clear(ctx, owner)
}

// MergeGuestCart folds a client-held guest cart into the user's ledger with
// addLine semantics, all-or-nothing. Repeated merges of the same guest cart
// add up: callers must not resubmit a batch that already succeeded.
func (s *Service) MergeGuestCart(ctx context.Context, userID string, in MergeInput) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, domain.ErrUnauthenticated
	}
	if len(in.Items) == 0 {
		return 0, fmt.Errorf("%w: items required", domain.ErrInvalidInput)
	}
	items := make([]cartrepo.MergeItem, 0, len(in.Items))
	for i, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return 0, fmt.Errorf("%w: item %d: productId required", domain.ErrInvalidInput, i)
		}
		if item.Quantity < 1 {
			return 0, fmt.Errorf("%w: item %d: quantity must be positive", domain.ErrInvalidInput, i)
		}
		items = append(items, cartrepo.MergeItem{
			ProductID: item.ProductID,
			Size:      strings.TrimSpace(item.Size),
			Quantity:  item.Quantity,
		})
	}

	count, err := s.repo.MergeLines(ctx, userID, items)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMergeFailed, err)
	}
	return count, nil
}
