package httpserver

import (
	"context"
	"log"

	"storefront/internal/domain"
	"storefront/internal/payment"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

type anonymousService interface {
	Issue(ctx context.Context) (token, sessionID string, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
	AccessTTLSeconds() int
}

type cartService interface {
	AddLine(ctx context.Context, owner domain.Identity, in cartsvc.AddLineInput) (*domain.CartLine, error)
	ListItems(ctx context.Context, owner domain.Identity) ([]domain.CartItem, error)
	CountQuantity(ctx context.Context, owner domain.Identity) (int, error)
	UpdateQuantity(ctx context.Context, owner domain.Identity, lineID string, quantity int) error
	RemoveLine(ctx context.Context, owner domain.Identity, lineID string) error
	MergeGuestCart(ctx context.Context, userID string, in cartsvc.MergeInput) (int, error)
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, authenticatedUserID string, in checkoutsvc.PlaceOrderInput) (*checkoutsvc.PlaceOrderResult, error)
}

type orderService interface {
	GetOwned(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Progress(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error)
	SetTracking(ctx context.Context, orderID, trackingNumber string) error
}

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type settingsStore interface {
	MaintenanceMode(ctx context.Context) (bool, error)
	SetMaintenanceMode(ctx context.Context, enabled bool) error
}

type paymentGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency string) (*payment.GatewayOrder, error)
}

// Deps bundles the services the router depends on.
type Deps struct {
	AuthSvc     authService
	AnonSvc     anonymousService
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	Products    productLister
	Settings    settingsStore
	Gateway     paymentGateway

	AdminKey string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	store := router.Group("/")
	store.Use(maintenanceMiddleware(deps.Settings, logger))
	{
		store.POST("/signup", signupHandler(deps.AuthSvc))
		store.POST("/login", loginHandler(deps.AuthSvc))
		store.POST("/anonymous/token", anonymousTokenHandler(deps.AnonSvc))

		store.GET("/products", listProductsHandler(deps.Products))
		store.GET("/products/:productID", getProductHandler(deps.Products))

		withIdentity := store.Group("/")
		withIdentity.Use(identityMiddleware(deps.AuthSvc, deps.AnonSvc))
		{
			withIdentity.POST("/cart/lines", addCartLineHandler(deps.CartSvc))
			withIdentity.GET("/cart/lines", listCartHandler(deps.CartSvc))
			withIdentity.GET("/cart/count", cartCountHandler(deps.CartSvc))
			withIdentity.PATCH("/cart/lines/:lineID", updateCartLineHandler(deps.CartSvc))
			withIdentity.DELETE("/cart/lines/:lineID", removeCartLineHandler(deps.CartSvc))
			withIdentity.POST("/cart/merge", mergeCartHandler(deps.CartSvc))

			withIdentity.POST("/payment/orders", createPaymentOrderHandler(deps.Gateway))
			withIdentity.POST("/checkout", checkoutHandler(deps.CheckoutSvc))

			withIdentity.GET("/orders", listOrdersHandler(deps.OrderSvc))
			withIdentity.GET("/orders/:orderID", getOrderHandler(deps.OrderSvc))
		}
	}

	admin := router.Group("/admin")
	admin.Use(adminKeyMiddleware(deps.AdminKey))
	{
		admin.PATCH("/orders/:orderID/status", updateOrderStatusHandler(deps.OrderSvc))
		admin.PATCH("/orders/:orderID/tracking", setTrackingHandler(deps.OrderSvc))
		admin.GET("/maintenance", getMaintenanceHandler(deps.Settings))
		admin.PUT("/maintenance", setMaintenanceHandler(deps.Settings))
	}

	return router
}
