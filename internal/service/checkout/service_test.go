package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

type stubAuth struct {
	resolved    *domain.User
	created     bool
	resolveErr  error
	sessionErr  error
	issuedFor   string
	issueCalled bool
}

func (s *stubAuth) ResolveForCheckout(_ context.Context, _, _, _ string) (*domain.User, bool, error) {
	return s.resolved, s.created, s.resolveErr
}

func (s *stubAuth) IssueSession(_ context.Context, userID string) (string, string, error) {
	s.issueCalled = true
	s.issuedFor = userID
	if s.sessionErr != nil {
		return "", "", s.sessionErr
	}
	return "access-tok", "refresh-tok", nil
}

func (s *stubAuth) AccessTTLSeconds() int { return 3600 }

type stubUsers struct {
	user         *domain.User
	getErr       error
	lastShipping domain.ShippingDetails
	shippingFor  string
	updateErr    error
}

func (s *stubUsers) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.getErr
}

func (s *stubUsers) UpdateShipping(_ context.Context, id string, ship domain.ShippingDetails) error {
	s.shippingFor = id
	s.lastShipping = ship
	return s.updateErr
}

type stubCarts struct {
	items     []domain.CartItem
	err       error
	listCalls int
}

func (s *stubCarts) ListItems(_ context.Context, _ domain.Identity) ([]domain.CartItem, error) {
	s.listCalls++
	return s.items, s.err
}

type stubOrders struct {
	created      []orderrepo.CreateInput
	createErrs   []error
	existing     *domain.Order
	existingErr  error
	numberExists bool

	// onCreate runs on a successful Create, mirroring the transactional
	// cart clear the real repository performs.
	onCreate func(*domain.Order)
	// raceWinner becomes the committed order once Create reports a
	// duplicate, modelling a concurrent submission winning the unique index.
	raceWinner *domain.Order
}

func (s *stubOrders) Create(_ context.Context, in orderrepo.CreateInput) (*domain.Order, error) {
	idx := len(s.created)
	s.created = append(s.created, in)
	if idx < len(s.createErrs) && s.createErrs[idx] != nil {
		err := s.createErrs[idx]
		if errors.Is(err, domain.ErrAlreadyExists) && s.raceWinner != nil {
			s.existing = s.raceWinner
		}
		return nil, err
	}
	lines := make([]domain.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
			Size:           l.Size,
		})
	}
	ord := &domain.Order{
		ID:            "ord-1",
		Number:        in.Number,
		UserID:        in.UserID,
		Status:        domain.StatusPending,
		TotalCents:    in.TotalCents,
		Currency:      in.Currency,
		CheckoutToken: in.CheckoutToken,
		Lines:         lines,
	}
	s.existing = ord
	if s.onCreate != nil {
		s.onCreate(ord)
	}
	return ord, nil
}

func (s *stubOrders) GetByCheckoutToken(_ context.Context, _ string) (*domain.Order, error) {
	if s.existingErr != nil {
		return nil, s.existingErr
	}
	if s.existing == nil {
		return nil, domain.ErrNotFound
	}
	return s.existing, nil
}

func (s *stubOrders) NumberExists(_ context.Context, _ string) (bool, error) {
	return s.numberExists, nil
}

type stubVerifier struct {
	ok bool
}

func (s *stubVerifier) Verify(_, _, _ string) bool { return s.ok }

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) OrderConfirmation(_ context.Context, to string, _ domain.Order) error {
	n.sent = append(n.sent, to)
	return n.err
}

func cents(v int64) *int64 { return &v }

func fixtureItems() []domain.CartItem {
	return []domain.CartItem{
		{
			CartLine: domain.CartLine{ID: "l1", ProductID: "p1", Size: "M", Quantity: 2},
			Product:  domain.Product{ID: "p1", Name: "Classic Tee", PriceCents: 500, Currency: "INR"},
		},
		{
			CartLine: domain.CartLine{ID: "l2", ProductID: "p2", Quantity: 1},
			Product:  domain.Product{ID: "p2", Name: "Zip Hoodie", PriceCents: 1200, SalePriceCents: cents(1000), Currency: "INR"},
		},
	}
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		Name:             "Asha",
		Email:            "asha@example.com",
		Password:         "hunter22!",
		Phone:            "9999999999",
		Address:          "1 Beach Rd",
		City:             "Chennai",
		State:            "TN",
		Pincode:          "600001",
		Country:          "IN",
		PaymentOrderRef:  "pay_order_1",
		PaymentRef:       "pay_1",
		PaymentSignature: "sig",
		CheckoutToken:    "tok-1",
	}
}

type fixture struct {
	auth     *stubAuth
	users    *stubUsers
	carts    *stubCarts
	orders   *stubOrders
	verifier *stubVerifier
	notifier *recordingNotifier
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		auth:     &stubAuth{resolved: &domain.User{ID: "u1", Email: "asha@example.com"}},
		users:    &stubUsers{user: &domain.User{ID: "u1", Email: "asha@example.com"}},
		carts:    &stubCarts{items: fixtureItems()},
		orders:   &stubOrders{},
		verifier: &stubVerifier{ok: true},
		notifier: &recordingNotifier{},
	}
	f.svc = New(Deps{
		Auth:     f.auth,
		Users:    f.users,
		Carts:    f.carts,
		Orders:   f.orders,
		Verifier: f.verifier,
		Notifier: f.notifier,
		Logger:   log.New(io.Discard, "", 0),
	})
	return f
}

func TestPlaceOrderComputesTotalFromEffectivePrices(t *testing.T) {
	f := newFixture()

	res, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	// 2x500 list + 1x1000 sale beats 1200 list.
	if res.Order.TotalCents != 2000 {
		t.Fatalf("expected total 2000, got %d", res.Order.TotalCents)
	}
	if len(res.Order.Lines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(res.Order.Lines))
	}
	if res.Order.Lines[1].UnitPriceCents != 1000 {
		t.Fatalf("expected snapshot sale price 1000, got %d", res.Order.Lines[1].UnitPriceCents)
	}
	if res.Order.Lines[0].ProductName != "Classic Tee" {
		t.Fatalf("expected name snapshot, got %q", res.Order.Lines[0].ProductName)
	}
	if res.Replayed {
		t.Fatalf("fresh order must not be marked replayed")
	}
}

func TestPlaceOrderTamperedSignatureCreatesNothing(t *testing.T) {
	f := newFixture()
	f.verifier.ok = false

	_, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if !errors.Is(err, domain.ErrPaymentVerificationFailed) {
		t.Fatalf("expected ErrPaymentVerificationFailed, got %v", err)
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("no order may be created on verification failure")
	}
	if f.carts.listCalls != 0 {
		t.Fatalf("cart must not be read before verification passes")
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.items = nil

	_, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("no order may be created from an empty cart")
	}
}

func TestPlaceOrderUpdatesShippingProfile(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.PlaceOrder(context.Background(), "u1", validInput()); err != nil {
		t.Fatalf("place order: %v", err)
	}
	if f.users.shippingFor != "u1" {
		t.Fatalf("expected shipping update for u1, got %q", f.users.shippingFor)
	}
	if f.users.lastShipping.City != "Chennai" || f.users.lastShipping.Pincode != "600001" {
		t.Fatalf("unexpected shipping snapshot: %+v", f.users.lastShipping)
	}
}

func TestPlaceOrderTokenReplayReturnsExistingOrder(t *testing.T) {
	f := newFixture()
	f.orders.existing = &domain.Order{ID: "ord-old", Number: "SHP-AAAA2222", UserID: "u1", CheckoutToken: "tok-1"}

	res, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("replay should succeed: %v", err)
	}
	if !res.Replayed {
		t.Fatalf("expected replayed result")
	}
	if res.Order.ID != "ord-old" {
		t.Fatalf("expected the original order, got %s", res.Order.ID)
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("replay must not attempt another create, got %d", len(f.orders.created))
	}
	if len(f.notifier.sent) != 0 {
		t.Fatalf("replay must not re-send the confirmation")
	}
}

func TestPlaceOrderRetryAfterClearedCartReplays(t *testing.T) {
	f := newFixture()
	// Committing the order clears the cart in the same transaction, so the
	// canonical retry arrives with an empty cart and only the token to go on.
	f.orders.onCreate = func(*domain.Order) { f.carts.items = nil }

	first, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	second, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("retry with same token must replay, got %v", err)
	}
	if !second.Replayed {
		t.Fatalf("expected replayed result on retry")
	}
	if second.Order.ID != first.Order.ID {
		t.Fatalf("retry must return the committed order, got %s and %s", first.Order.ID, second.Order.ID)
	}
	if len(f.orders.created) != 1 {
		t.Fatalf("expected exactly one create across both attempts, got %d", len(f.orders.created))
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("confirmation must go out once, got %d", len(f.notifier.sent))
	}
}

func TestPlaceOrderRejectsForeignCheckoutToken(t *testing.T) {
	f := newFixture()
	f.orders.existing = &domain.Order{
		ID:            "ord-victim",
		Number:        "SHP-VICTIM22",
		UserID:        "someone-else",
		CheckoutToken: "tok-1",
		Shipping:      domain.ShippingDetails{Address: "private addr"},
	}

	res, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if !errors.Is(err, domain.ErrOrderCreationFailed) {
		t.Fatalf("expected ErrOrderCreationFailed for a foreign token, got %v", err)
	}
	if res != nil {
		t.Fatalf("foreign token must not expose the other user's order")
	}
	if len(f.orders.created) != 0 {
		t.Fatalf("no order may be created against a foreign token")
	}
}

func TestPlaceOrderConcurrentDuplicateReplaysOwnOrder(t *testing.T) {
	f := newFixture()
	// The unique index rejects this submission because a parallel one with
	// the same token committed first.
	winner := &domain.Order{ID: "ord-winner", Number: "SHP-WINNER22", UserID: "u1", CheckoutToken: "tok-1"}
	f.orders.createErrs = []error{domain.ErrAlreadyExists}
	f.orders.raceWinner = winner

	res, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("losing a token race must replay the winner: %v", err)
	}
	if !res.Replayed || res.Order.ID != "ord-winner" {
		t.Fatalf("expected the winner's order replayed, got %+v", res)
	}

	f = newFixture()
	f.orders.createErrs = []error{domain.ErrAlreadyExists}
	f.orders.raceWinner = &domain.Order{ID: "ord-other", UserID: "someone-else", CheckoutToken: "tok-1"}

	if _, err := f.svc.PlaceOrder(context.Background(), "u1", validInput()); !errors.Is(err, domain.ErrOrderCreationFailed) {
		t.Fatalf("a foreign winner must not be handed back, got %v", err)
	}
}

func TestPlaceOrderRetriesOnNumberCollision(t *testing.T) {
	f := newFixture()
	// First create hits a number collision (no order holds the token), the
	// second succeeds with a fresh number.
	f.orders.createErrs = []error{domain.ErrAlreadyExists, nil}

	res, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if len(f.orders.created) != 2 {
		t.Fatalf("expected 2 create attempts, got %d", len(f.orders.created))
	}
	if f.orders.created[0].Number == f.orders.created[1].Number {
		t.Fatalf("retry must use a fresh order number")
	}
	if res.Order == nil {
		t.Fatalf("expected an order")
	}
}

func TestPlaceOrderGuestSessionIssuedOnlyOnSuccess(t *testing.T) {
	f := newFixture()
	f.verifier.ok = false

	if _, err := f.svc.PlaceOrder(context.Background(), "", validInput()); err == nil {
		t.Fatalf("expected verification failure")
	}
	if f.auth.issueCalled {
		t.Fatalf("failed payment must not log the guest in")
	}

	f = newFixture()
	res, err := f.svc.PlaceOrder(context.Background(), "", validInput())
	if err != nil {
		t.Fatalf("guest checkout: %v", err)
	}
	if !f.auth.issueCalled || f.auth.issuedFor != "u1" {
		t.Fatalf("expected session issued for u1")
	}
	if res.AccessToken != "access-tok" || res.RefreshToken != "refresh-tok" {
		t.Fatalf("expected tokens in result, got %+v", res)
	}
	if res.ExpiresIn != 3600 {
		t.Fatalf("expected expiresIn 3600, got %d", res.ExpiresIn)
	}
}

func TestPlaceOrderAuthenticatedUserGetsNoSession(t *testing.T) {
	f := newFixture()

	res, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if f.auth.issueCalled {
		t.Fatalf("authenticated checkout must not reissue a session")
	}
	if res.AccessToken != "" {
		t.Fatalf("unexpected access token %q", res.AccessToken)
	}
}

func TestPlaceOrderNotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")

	res, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("notification failure must not fail checkout: %v", err)
	}
	if res.Order == nil {
		t.Fatalf("expected a committed order")
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0] != "asha@example.com" {
		t.Fatalf("expected one confirmation attempt, got %v", f.notifier.sent)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.Address = ""
	if _, err := f.svc.PlaceOrder(context.Background(), "u1", in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing address, got %v", err)
	}

	in = validInput()
	in.PaymentSignature = ""
	if _, err := f.svc.PlaceOrder(context.Background(), "u1", in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing signature, got %v", err)
	}

	// Guests must supply a name; authenticated users may omit it.
	in = validInput()
	in.Name = ""
	if _, err := f.svc.PlaceOrder(context.Background(), "", in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for guest without name, got %v", err)
	}
	if _, err := f.svc.PlaceOrder(context.Background(), "u1", in); err != nil {
		t.Fatalf("authenticated checkout without name: %v", err)
	}
}

func TestPlaceOrderWrapsPersistenceFailure(t *testing.T) {
	f := newFixture()
	f.orders.createErrs = []error{errors.New("connection reset")}

	_, err := f.svc.PlaceOrder(context.Background(), "u1", validInput())
	if !errors.Is(err, domain.ErrOrderCreationFailed) {
		t.Fatalf("expected ErrOrderCreationFailed, got %v", err)
	}
}

func TestPlaceOrderBlankTokenStillCreates(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.CheckoutToken = ""

	if _, err := f.svc.PlaceOrder(context.Background(), "u1", in); err != nil {
		t.Fatalf("place order: %v", err)
	}
	if f.orders.created[0].CheckoutToken == "" {
		t.Fatalf("expected a generated fallback token")
	}
}
