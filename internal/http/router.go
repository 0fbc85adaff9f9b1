// Package httpapi wires the Gin transport to the recipe, product and
// supermarket services. It owns middleware ordering, dependency injection and
// the route table; handlers and middleware live in their own packages.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/JaidenRM/recipe-shopper-api/internal/config"
	_ "github.com/JaidenRM/recipe-shopper-api/internal/docs"
	"github.com/JaidenRM/recipe-shopper-api/internal/http/handlers"
	"github.com/JaidenRM/recipe-shopper-api/internal/http/middleware"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
	"github.com/JaidenRM/recipe-shopper-api/internal/search"
	"github.com/JaidenRM/recipe-shopper-api/internal/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Deps are the runtime collaborators the router injects into services.
type Deps struct {
	DB        *gorm.DB
	Providers []search.Provider
	// Redis switches rate limiting to a shared fixed window. Optional.
	Redis redis.Cmdable
}

// RegisterRoutes attaches middleware and every endpoint to r.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID, then ClientID (both feed logs, limiter keys and idempotency)
//  3. RedactingLogger
//  4. Recovery
//  5. Body size limit
//  6. Metrics
//  7. CORS and security headers (so 4xx from later stages still carry them)
//  8. gzip
//  9. Idempotency validator (replays bypass the limiter)
//  10. Rate limiter
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	db := deps.DB

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID(), middleware.ClientID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(corsMiddleware(cfg.CORS))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
		SkipPrefixes: []string{"/swagger"},
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/swagger"})))

	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idempotencyLookup(db)))
	r.Use(newLimiter(deps.Redis, cfg.RateLimit).Handler())

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", health(db))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(
		services.NewRecipeService(db),
		&services.ProductService{DB: db},
		services.NewSupermarketService(db, deps.Providers...),
		handlers.Options{DB: db, IdempotencyTTL: cfg.IdempotencyTTL},
	)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Recipes
		api.GET("/recipes", h.ListRecipes)
		api.POST("/recipes", h.CreateRecipe)
		api.GET("/recipes/:id", h.GetRecipe)
		api.PUT("/recipes/:id", h.UpdateRecipe)
		api.DELETE("/recipes/:id", h.DeleteRecipe)

		// Products
		api.GET("/products", h.ListProducts)
		api.POST("/products", h.CreateProduct)

		// Supermarkets
		api.GET("/supermarkets", h.ListSupermarkets)
		api.GET("/supermarkets/search", h.SearchSupermarkets)
		api.GET("/supermarkets/:supermarketId/search", h.SearchSupermarket)
		api.GET("/supermarkets/:supermarketId/products/:id", h.GetProduct)
		api.PUT("/supermarkets/:supermarketId/products/:id", h.UpdateProduct)
		api.DELETE("/supermarkets/:supermarketId/products/:id", h.DeleteProduct)
	}
}

// idempotencyLookup reports whether an unexpired key is stored. Only a
// missing record is a plain miss; storage errors go back to the middleware,
// which logs them and lets the request create normally.
func idempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, clientID, scope, key string, now time.Time) (bool, error) {
		rec, err := repo.GetIdempotency(ctx, db, clientID, scope, key, now)
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return rec != nil, nil
	}
}

// newLimiter picks the Redis fixed window when a client is configured and
// the in-process token bucket otherwise.
func newLimiter(rdb redis.Cmdable, cfg config.RateLimitConfig) middleware.Limiter {
	if rdb != nil {
		return middleware.NewRedisRateLimiter(rdb, windowLimit(cfg), cfg.Window, middleware.KeyByClientOrIP())
	}
	return middleware.NewRateLimiter(cfg.RPS, cfg.Burst, middleware.KeyByClientOrIP())
}

// windowLimit converts the token-bucket settings into a per-window count:
// the sustained rate over the window, never less than one burst.
func windowLimit(cfg config.RateLimitConfig) int {
	n := int(cfg.RPS * cfg.Window.Seconds())
	if n < cfg.Burst {
		n = cfg.Burst
	}
	return n
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			middleware.HeaderClientID, middleware.HeaderIdempotencyKey,
		},
		ExposeHeaders: []string{
			"X-Request-ID", "Location", middleware.HeaderIdempotencyReplayed,
			"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
		allowAll := cors.New(cc)
		// ACAO is also set for requests without an Origin (health checks, curl).
		return func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			allowAll(c)
		}
	}
	cc.AllowOrigins = cfg.AllowedOrigins
	return cors.New(cc)
}

// health pings the database; 503 when it is unreachable.
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err = sqlDB.PingContext(ctx)
			cancel()
		}
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// limitBody caps the request body at maxBytes; reads past it fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
