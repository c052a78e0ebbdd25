package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/notify"
	"storefront/internal/payment"
	cartrepo "storefront/internal/repository/cart"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	settingsrepo "storefront/internal/repository/settings"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	anonymoussvc "storefront/internal/service/anonymous"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	settingsRepo := settingsrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo)
	anonymousService := anonymoussvc.New()
	cartService := cartsvc.New(cartRepo, productRepo)
	orderService := ordersvc.New(orderRepo)

	var notifier notify.Sender
	if cfg.SMTPAddr != "" {
		notifier = notify.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		notifier = notify.NewLogSender(logger)
	}

	checkoutService := checkoutsvc.New(checkoutsvc.Deps{
		Auth:         authService,
		Users:        userRepo,
		Carts:        cartRepo,
		Orders:       orderRepo,
		Verifier:     payment.NewVerifier(cfg.PaymentSecret),
		Notifier:     notifier,
		Logger:       logger,
		NumberPrefix: cfg.OrderNumberPrefix,
	})

	deps := httpserver.Deps{
		AuthSvc:     authService,
		AnonSvc:     anonymousService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		Products:    productRepo,
		Settings:    settingsRepo,
		AdminKey:    cfg.AdminKey,
	}
	if cfg.PaymentBaseURL != "" {
		gateway, err := payment.NewGateway(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentSecret)
		if err != nil {
			logger.Fatalf("init payment gateway: %v", err)
		}
		deps.Gateway = gateway
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
