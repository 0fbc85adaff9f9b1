package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/http/middleware"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
	"github.com/JaidenRM/recipe-shopper-api/internal/search"
	"github.com/JaidenRM/recipe-shopper-api/internal/services"
)

// ---------- test DB ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// ---------- stub supermarket service ----------

type stubMarkets struct {
	list       func(context.Context) ([]domain.Supermarket, error)
	search     func(context.Context, domain.SupermarketType, string) ([]search.Product, error)
	searchSome func(context.Context, []domain.SupermarketType, string) (map[domain.SupermarketType][]search.Product, error)
	searchAll  func(context.Context, string) (map[domain.SupermarketType][]search.Product, error)
}

func (s stubMarkets) Supermarkets(ctx context.Context) ([]domain.Supermarket, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s stubMarkets) Search(ctx context.Context, m domain.SupermarketType, term string) ([]search.Product, error) {
	if s.search != nil {
		return s.search(ctx, m, term)
	}
	return []search.Product{}, nil
}

func (s stubMarkets) SearchSome(ctx context.Context, ms []domain.SupermarketType, term string) (map[domain.SupermarketType][]search.Product, error) {
	if s.searchSome != nil {
		return s.searchSome(ctx, ms, term)
	}
	return map[domain.SupermarketType][]search.Product{}, nil
}

func (s stubMarkets) SearchAll(ctx context.Context, term string) (map[domain.SupermarketType][]search.Product, error) {
	if s.searchAll != nil {
		return s.searchAll(ctx, term)
	}
	return map[domain.SupermarketType][]search.Product{}, nil
}

// ---------- router ----------

type testAPI struct {
	db *gorm.DB
	r  *gin.Engine
}

// newTestAPI mounts every handler under /api/v1 backed by real services on
// SQLite and the given supermarket stub.
func newTestAPI(t *testing.T, markets SupermarketService) *testAPI {
	return newTestAPIWithLookup(t, markets, nil)
}

// newTestAPIWithLookup is newTestAPI with a custom idempotency lookup; nil
// reads the idempotency table.
func newTestAPIWithLookup(t *testing.T, markets SupermarketService, lookup middleware.IdempotencyLookup) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)

	h := New(services.NewRecipeService(db), &services.ProductService{DB: db}, markets, Options{DB: db, IdempotencyTTL: time.Hour})

	if lookup == nil {
		lookup = func(ctx context.Context, clientID, scope, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, clientID, scope, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		}
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ClientID())
	v1 := r.Group("/api/v1")
	v1.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))

	v1.GET("/recipes", h.ListRecipes)
	v1.POST("/recipes", h.CreateRecipe)
	v1.GET("/recipes/:id", h.GetRecipe)
	v1.PUT("/recipes/:id", h.UpdateRecipe)
	v1.DELETE("/recipes/:id", h.DeleteRecipe)

	v1.GET("/products", h.ListProducts)
	v1.POST("/products", h.CreateProduct)

	v1.GET("/supermarkets", h.ListSupermarkets)
	v1.GET("/supermarkets/search", h.SearchSupermarkets)
	v1.GET("/supermarkets/:supermarketId/search", h.SearchSupermarket)
	v1.GET("/supermarkets/:supermarketId/products/:id", h.GetProduct)
	v1.PUT("/supermarkets/:supermarketId/products/:id", h.UpdateProduct)
	v1.DELETE("/supermarkets/:supermarketId/products/:id", h.DeleteProduct)

	return &testAPI{db: db, r: r}
}

func (a *testAPI) do(t *testing.T, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", v, err, w.Body.String())
	}
	return v
}

// pancakes is a valid create payload as a client would send it.
func pancakes() map[string]any {
	return map[string]any{
		"name":            "Pancakes",
		"description":     "Fluffy",
		"tags":            []string{"breakfast", "sweet"},
		"servings":        4,
		"durationMinutes": 25,
		"ingredients": []map[string]any{
			{"name": "flour", "quantity": 1.5, "measurementUnit": "cup",
				"linkingProduct": map[string]any{"id": 100, "supermarketId": 1, "name": "Plain Flour 1kg"}},
			{"name": "milk", "quantity": "300", "measurementUnit": "millilitres"},
		},
		"instructions": []map[string]any{
			{"order": 0, "description": "Whisk"},
			{"order": 1, "description": "Fry"},
		},
	}
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
