// Package handlers exposes the REST endpoints of the RecipeShopper API.
//
// Handlers are transport-thin: they parse path and query parameters, bind
// JSON into service commands, call the services, and translate results and
// errors into HTTP responses. Validation lives in the services.
package handlers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/search"
	"github.com/JaidenRM/recipe-shopper-api/internal/services"
)

//
// Service contracts (context-aware)
//

// RecipeService defines the recipe lifecycle consumed by the handlers.
type RecipeService interface {
	Create(ctx context.Context, cmd services.CreateRecipeCommand) (uint, error)
	Get(ctx context.Context, id uint) (*domain.Recipe, error)
	List(ctx context.Context, ids []uint) ([]domain.Recipe, error)
	Update(ctx context.Context, cmd services.UpdateRecipeCommand) error
	Delete(ctx context.Context, id uint) error
}

// ProductService defines stored product operations.
type ProductService interface {
	Create(ctx context.Context, cmd services.CreateProductCommand) (*domain.Product, error)
	Get(ctx context.Context, supermarketID, id int) (*domain.Product, error)
	List(ctx context.Context, ids []int) ([]domain.Product, error)
	Update(ctx context.Context, cmd services.UpdateProductCommand) error
	Delete(ctx context.Context, supermarketID, id int) error
}

// SupermarketService defines retailer listing and live catalogue search.
type SupermarketService interface {
	Supermarkets(ctx context.Context) ([]domain.Supermarket, error)
	Search(ctx context.Context, market domain.SupermarketType, term string) ([]search.Product, error)
	SearchSome(ctx context.Context, markets []domain.SupermarketType, term string) (map[domain.SupermarketType][]search.Product, error)
	SearchAll(ctx context.Context, term string) (map[domain.SupermarketType][]search.Product, error)
}

//
// Handler wiring
//

// Options tune optional handler behavior.
type Options struct {
	// DB stores idempotency records for POST /recipes. Nil disables replay.
	DB *gorm.DB
	// IdempotencyTTL is how long a key replays its first result. Defaults
	// to 24h.
	IdempotencyTTL time.Duration
}

// Handlers groups every endpoint. It depends on the service interfaces
// above so tests can substitute fakes.
type Handlers struct {
	recipes  RecipeService
	products ProductService
	markets  SupermarketService

	db      *gorm.DB
	idemTTL time.Duration
}

// New constructs Handlers bound to the given services.
func New(recipes RecipeService, products ProductService, markets SupermarketService, opts Options) *Handlers {
	ttl := opts.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handlers{
		recipes:  recipes,
		products: products,
		markets:  markets,
		db:       opts.DB,
		idemTTL:  ttl,
	}
}
