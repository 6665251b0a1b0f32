package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"qkart/internal/config"
	"qkart/internal/db"
	"qkart/internal/httpserver"
	"qkart/internal/metrics"
	cartrepo "qkart/internal/repository/cart"
	productrepo "qkart/internal/repository/product"
	userrepo "qkart/internal/repository/user"
	authsvc "qkart/internal/service/auth"
	cartsvc "qkart/internal/service/cart"
	productsvc "qkart/internal/service/product"
	usersvc "qkart/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	serverMetrics := metrics.New("api")

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)

	authService := authsvc.New(userRepo, authsvc.Config{
		Secret:        cfg.JWTSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		DefaultWallet: cfg.DefaultWalletMoney,
	})
	cartService := cartsvc.New(cartRepo, productRepo, userRepo,
		cartsvc.WithLogger(logger),
		cartsvc.WithCheckoutObserver(serverMetrics.ObserveCheckout),
	)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		UserSvc:     usersvc.New(userRepo),
		ProductSvc:  productsvc.New(productRepo),
		CartSvc:     cartService,
		Metrics:     serverMetrics,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Printf("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Printf("server stopped with error: %v", err)
		return
	}
	logger.Printf("server stopped")
}
