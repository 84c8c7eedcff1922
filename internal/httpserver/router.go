package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ezelectronics/internal/config"
	"ezelectronics/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cartService interface {
	GetCurrentCart(ctx context.Context, owner string) (*domain.Cart, error)
	AddToCart(ctx context.Context, owner, model string) error
	RemoveProductFromCart(ctx context.Context, owner, model string) error
	ClearCart(ctx context.Context, owner string) error
	CheckoutCart(ctx context.Context, owner string) error
	GetCustomerCarts(ctx context.Context, owner string) ([]domain.Cart, error)
	GetAllCarts(ctx context.Context) ([]domain.Cart, error)
	DeleteAllCarts(ctx context.Context) error
}

type productService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, model string) (*domain.Product, error)
}

type authorizer interface {
	Enforce(role, path, method string) (bool, error)
}

// Deps are the collaborators the router dispatches to.
type Deps struct {
	CartSvc    cartService
	ProductSvc productService
	Authz      authorizer

	// Redis enables per-owner rate limiting of cart mutations when set.
	Redis     *redis.Client
	RateLimit config.RateLimitConfig

	BasePath       string
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CartSvc == nil || deps.ProductSvc == nil {
		return nil, errors.New("httpserver: cart and product services are required")
	}
	if deps.Authz == nil {
		return nil, errors.New("httpserver: authorizer is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		recoveryMiddleware(logger),
		requestIDMiddleware(),
		accessLogMiddleware(logger),
		corsMiddleware(deps.AllowedOrigins),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{carts: deps.CartSvc, products: deps.ProductSvc, logger: logger}
	limit := rateLimitMiddleware(deps.Redis, cartRateLimitRule(deps.RateLimit), logger)

	api := router.Group(normalizeBasePath(deps.BasePath))
	api.Use(identityMiddleware(), authorizeMiddleware(deps.Authz, logger))

	carts := api.Group("/carts")
	carts.GET("", h.getCurrentCart)
	carts.POST("", limit, h.addToCart)
	carts.PATCH("", limit, h.checkoutCart)
	carts.GET("/history", h.getCartHistory)
	carts.DELETE("/products/:model", limit, h.removeProductFromCart)
	carts.DELETE("/current", limit, h.clearCart)
	carts.DELETE("", h.deleteAllCarts)
	carts.GET("/all", h.getAllCarts)

	products := api.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/:model", h.getProduct)

	return router, nil
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerUser, headerRole, requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}
