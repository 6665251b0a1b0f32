package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"qkart/internal/domain"
	"qkart/internal/metrics"
	authsvc "qkart/internal/service/auth"
	cartsvc "qkart/internal/service/cart"
)

// AuthService registers users, checks credentials and resolves bearer tokens.
type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GenerateAuthTokens(u *domain.User) (authsvc.AuthTokens, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
}

// UserService reads users and updates their shipping address.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	SetAddress(ctx context.Context, u domain.User, address string) (*domain.User, error)
}

// ProductService exposes the read-only catalog.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// CartService is the cart and checkout engine.
type CartService interface {
	Quote(ctx context.Context, user domain.User) (cartsvc.Quote, error)
	AddItem(ctx context.Context, user domain.User, productID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, user domain.User, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, user domain.User, productID string) error
	Checkout(ctx context.Context, user domain.User) error
}

// Deps lists everything the router needs. Metrics is optional.
type Deps struct {
	AuthSvc     AuthService
	UserSvc     UserService
	ProductSvc  ProductService
	CartSvc     CartService
	Metrics     *metrics.ServerMetrics
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.AuthSvc == nil:
		return errors.New("httpserver: auth service is required")
	case d.UserSvc == nil:
		return errors.New("httpserver: user service is required")
	case d.ProductSvc == nil:
		return errors.New("httpserver: product service is required")
	case d.CartSvc == nil:
		return errors.New("httpserver: cart service is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	corsMW, err := corsMiddleware(deps.CORSOrigins)
	if err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), corsMW)
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", registerHandler(deps.AuthSvc))
	auth.POST("/login", loginHandler(deps.AuthSvc))

	products := v1.Group("/products")
	products.GET("", listProductsHandler(deps.ProductSvc))
	products.GET("/:productId", getProductHandler(deps.ProductSvc))

	users := v1.Group("/users", authMiddleware(deps.AuthSvc))
	users.GET("/:userId", getUserHandler(deps.UserSvc))
	users.PUT("/:userId", setAddressHandler(deps.UserSvc))

	cart := v1.Group("/cart", authMiddleware(deps.AuthSvc))
	cart.GET("", getCartHandler(deps.CartSvc))
	cart.POST("", addToCartHandler(deps.CartSvc))
	cart.PUT("", updateCartHandler(deps.CartSvc))
	cart.DELETE("/items/:productId", removeFromCartHandler(deps.CartSvc))
	cart.PUT("/checkout", checkoutHandler(deps.CartSvc))

	return router, nil
}

func corsMiddleware(origins []string) (gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cors.New(cfg), nil
}
