package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/notify"
	orderrepo "storefront/internal/repository/order"
	"github.com/google/uuid"
)

// Service drives order placement: resolve the actor to a user, verify the
// payment signature, snapshot and price the cart, and convert it into an
// order atomically.
type Service struct {
	auth     authService
	users    userStore
	carts    cartStore
	orders   orderStore
	verifier payVerifier
	notifier notify.Sender
	logger   *log.Logger

	numberPrefix string
}

type authService interface {
	ResolveForCheckout(ctx context.Context, email, password, name string) (*domain.User, bool, error)
	IssueSession(ctx context.Context, userID string) (access, refresh string, err error)
	AccessTTLSeconds() int
}

type userStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateShipping(ctx context.Context, id string, s domain.ShippingDetails) error
}

type cartStore interface {
	ListItems(ctx context.Context, owner domain.Identity) ([]domain.CartItem, error)
}

type orderStore interface {
	Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
	GetByCheckoutToken(ctx context.Context, token string) (*domain.Order, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

type payVerifier interface {
	Verify(orderRef, paymentRef, suppliedSignature string) bool
}

type Deps struct {
	Auth     authService
	Users    userStore
	Carts    cartStore
	Orders   orderStore
	Verifier payVerifier
	Notifier notify.Sender
	Logger   *log.Logger

	NumberPrefix string
}

func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	prefix := strings.TrimSpace(deps.NumberPrefix)
	if prefix == "" {
		prefix = "SHP"
	}
	return &Service{
		auth:         deps.Auth,
		users:        deps.Users,
		carts:        deps.Carts,
		orders:       deps.Orders,
		verifier:     deps.Verifier,
		notifier:     deps.Notifier,
		logger:       logger,
		numberPrefix: prefix,
	}
}

// PlaceOrderInput mirrors the checkout submission.
type PlaceOrderInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Country  string `json:"country"`
	Notes    string `json:"notes,omitempty"`

	PaymentOrderRef  string `json:"paymentOrderRef"`
	PaymentRef       string `json:"paymentRef"`
	PaymentSignature string `json:"paymentSignature"`

	// CheckoutToken is an opaque client-generated token. Resubmitting the
	// same token returns the order it originally created instead of
	// creating another one.
	CheckoutToken string `json:"checkoutToken,omitempty"`
}

// PlaceOrderResult carries the committed order plus the session issued for
// a guest who logged in or registered through checkout.
type PlaceOrderResult struct {
	Order        *domain.Order `json:"order"`
	Replayed     bool          `json:"replayed,omitempty"`
	AccessToken  string        `json:"accessToken,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	ExpiresIn    int           `json:"expiresIn,omitempty"`
}

// PlaceOrder runs the checkout workflow. authenticatedUserID is empty for
// guests; guests are resolved (logged in or registered) by email, and their
// session is committed only after payment verification succeeds.
func (s *Service) PlaceOrder(ctx context.Context, authenticatedUserID string, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := validateInput(authenticatedUserID, in); err != nil {
		return nil, err
	}

	// Step 1: resolve actor to a user. The user row created here stays
	// committed even when verification below fails.
	var u *domain.User
	var guestResolved bool
	if authenticatedUserID != "" {
		existing, err := s.users.GetByID(ctx, authenticatedUserID)
		if err != nil {
			return nil, err
		}
		u = existing
	} else {
		resolved, _, err := s.auth.ResolveForCheckout(ctx, in.Email, in.Password, in.Name)
		if err != nil {
			return nil, err
		}
		u = resolved
		guestResolved = true
	}

	// Step 2: verify payment before anything order-shaped happens.
	if !s.verifier.Verify(in.PaymentOrderRef, in.PaymentRef, in.PaymentSignature) {
		return nil, domain.ErrPaymentVerificationFailed
	}

	token := strings.TrimSpace(in.CheckoutToken)
	if token != "" {
		// Token replay check must precede the cart snapshot: the retry that
		// matters is the one where the first attempt already committed the
		// order and cleared the cart.
		existing, err := s.orders.GetByCheckoutToken(ctx, token)
		switch {
		case err == nil:
			res, err := s.replay(ctx, existing, u, guestResolved)
			if err != nil {
				return nil, err
			}
			return res, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	// Step 3: overwrite the shipping profile wholesale.
	shipping := domain.ShippingDetails{
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		Pincode: strings.TrimSpace(in.Pincode),
		Country: strings.TrimSpace(in.Country),
	}
	if err := s.users.UpdateShipping(ctx, u.ID, shipping); err != nil {
		return nil, err
	}

	// Steps 4-5: snapshot and price the cart.
	items, err := s.carts.ListItems(ctx, domain.UserIdentity(u.ID))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var total int64
	currency := items[0].Product.Currency
	lines := make([]orderrepo.LineInput, 0, len(items))
	for _, item := range items {
		unit := item.Product.EffectiveUnitPriceCents()
		total += unit * int64(item.Quantity)
		lines = append(lines, orderrepo.LineInput{
			ProductID:      item.ProductID,
			ProductName:    item.Product.Name,
			UnitPriceCents: unit,
			Quantity:       item.Quantity,
			Size:           item.Size,
		})
	}

	if token == "" {
		// No client token: the request is still atomic but a network retry
		// can create a second order.
		token = uuid.NewString()
	}

	// Steps 6-8: create order + lines and clear the cart in one
	// transaction. ErrAlreadyExists means either a token replay (return the
	// existing order) or an order-number collision (regenerate).
	var ord *domain.Order
	for attempt := 0; attempt < 5; attempt++ {
		number, err := s.generateOrderNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrOrderCreationFailed, err)
		}
		ord, err = s.orders.Create(ctx, orderrepo.CreateInput{
			Number:        number,
			UserID:        u.ID,
			TotalCents:    total,
			Currency:      currency,
			Shipping:      shipping,
			Notes:         strings.TrimSpace(in.Notes),
			PaymentRef:    in.PaymentRef,
			CheckoutToken: token,
			Lines:         lines,
		})
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			if existing, getErr := s.orders.GetByCheckoutToken(ctx, token); getErr == nil {
				res, replayErr := s.replay(ctx, existing, u, guestResolved)
				if replayErr != nil {
					return nil, replayErr
				}
				return res, nil
			}
			// Number collision: try again with a fresh number.
			continue
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderCreationFailed, err)
	}
	if ord == nil {
		return nil, fmt.Errorf("%w: could not allocate an order number", domain.ErrOrderCreationFailed)
	}

	// Step 9: best-effort confirmation, after commit. Never fails the call.
	if s.notifier != nil {
		if err := s.notifier.OrderConfirmation(ctx, u.Email, *ord); err != nil {
			s.logger.Printf("checkout: order %s confirmation failed: %v", ord.Number, err)
		}
	}

	res := &PlaceOrderResult{Order: ord}
	s.finishSession(ctx, res, u.ID, guestResolved)
	return res, nil
}

// replay resolves a checkout-token hit. The token is client-chosen, so an
// order held by another user must never be handed back: that is either a
// guess at someone else's token or a cross-account reuse, and both end the
// request.
func (s *Service) replay(ctx context.Context, existing *domain.Order, u *domain.User, guestResolved bool) (*PlaceOrderResult, error) {
	if existing.UserID != u.ID {
		s.logger.Printf("checkout: token for order %s reused by user %s", existing.ID, u.ID)
		return nil, fmt.Errorf("%w: checkout token already used", domain.ErrOrderCreationFailed)
	}
	res := &PlaceOrderResult{Order: existing, Replayed: true}
	s.finishSession(ctx, res, u.ID, guestResolved)
	return res, nil
}

// finishSession commits the guest's login only now, with payment verified
// and the order in place.
func (s *Service) finishSession(ctx context.Context, res *PlaceOrderResult, userID string, guestResolved bool) {
	if !guestResolved {
		return
	}
	access, refresh, err := s.auth.IssueSession(ctx, userID)
	if err != nil {
		// The order is committed; a missing session is recoverable by a
		// normal login.
		s.logger.Printf("checkout: issue session user=%s: %v", userID, err)
		return
	}
	res.AccessToken = access
	res.RefreshToken = refresh
	res.ExpiresIn = s.auth.AccessTTLSeconds()
}

func validateInput(authenticatedUserID string, in PlaceOrderInput) error {
	required := map[string]string{
		"email":   in.Email,
		"phone":   in.Phone,
		"address": in.Address,
		"city":    in.City,
		"state":   in.State,
		"pincode": in.Pincode,
		"country": in.Country,
	}
	if authenticatedUserID == "" {
		required["name"] = in.Name
	}
	for _, field := range []string{"name", "email", "phone", "address", "city", "state", "pincode", "country"} {
		v, ok := required[field]
		if ok && strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s required", domain.ErrInvalidInput, field)
		}
	}
	if strings.TrimSpace(in.PaymentOrderRef) == "" || strings.TrimSpace(in.PaymentRef) == "" || strings.TrimSpace(in.PaymentSignature) == "" {
		return fmt.Errorf("%w: payment confirmation required", domain.ErrInvalidInput)
	}
	return nil
}
