package cart

import (
	"context"

	"storefront/internal/domain"
)

// AddLineInput describes one add-to-cart request against an owner's ledger.
type AddLineInput struct {
	Owner     domain.Identity
	ProductID string
	Size      string
	Quantity  int
}

// MergeItem is one guest-cart entry folded into a user's ledger.
type MergeItem struct {
	ProductID string
	Size      string
	Quantity  int
}

type Repository interface {
	// AddLine inserts a line or increments the quantity of the existing
	// (owner, product, size) line, and returns the resulting line.
	AddLine(ctx context.Context, in AddLineInput) (*domain.CartLine, error)
	// ListItems returns the owner's lines joined with current product data.
	ListItems(ctx context.Context, owner domain.Identity) ([]domain.CartItem, error)
	// CountQuantity sums quantities across the owner's lines; 0 when empty.
	CountQuantity(ctx context.Context, owner domain.Identity) (int, error)
	// UpdateQuantity overwrites a line's quantity. ErrNotFound when the line
	// does not exist or is not owned by the identity.
	UpdateQuantity(ctx context.Context, owner domain.Identity, lineID string, quantity int) error
	// RemoveLine deletes a single owned line.
	RemoveLine(ctx context.Context, owner domain.Identity, lineID string) error
	// Clear deletes all lines owned by the identity.
	Clear(ctx context.Context, owner domain.Identity) error
	// MergeLines applies the batch against the user's ledger with addLine
	// semantics, all within one transaction. Any item failure rolls the
	// whole batch back.
	MergeLines(ctx context.Context, userID string, items []MergeItem) (int, error)
}
