package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is a known value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo enforces pending → processing → shipped → delivered,
// with cancelled reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

// Order is an immutable-after-creation record of a completed checkout.
// Only the status and tracking number change after creation.
type Order struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	UserID         string          `json:"userId"`
	Status         OrderStatus     `json:"status"`
	TotalCents     int64           `json:"totalCents"`
	Currency       string          `json:"currency"`
	Shipping       ShippingDetails `json:"shipping"`
	Notes          string          `json:"notes,omitempty"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	PaymentRef     string          `json:"paymentRef,omitempty"`
	CheckoutToken  string          `json:"-"`
	CreatedAt      time.Time       `json:"createdAt"`
	Lines          []OrderLine     `json:"lines,omitempty"`
}

// OrderLine freezes product name and price at order-creation time. The
// product id is a soft back-reference for navigation only; the snapshot
// never tracks later catalog edits.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	Size           string `json:"size,omitempty"`
}
