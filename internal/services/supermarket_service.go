package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
	"github.com/JaidenRM/recipe-shopper-api/internal/search"
)

// SupermarketService routes product searches to the provider registered
// for each supermarket.
type SupermarketService struct {
	DB        *gorm.DB
	providers map[domain.SupermarketType]search.Provider
}

// NewSupermarketService registers providers by the supermarket they serve.
// A later provider for the same supermarket replaces an earlier one.
func NewSupermarketService(db *gorm.DB, providers ...search.Provider) *SupermarketService {
	s := &SupermarketService{DB: db, providers: make(map[domain.SupermarketType]search.Provider, len(providers))}
	for _, p := range providers {
		s.providers[p.Supermarket()] = p
	}
	return s
}

// Registered returns the supermarkets with a provider, in id order.
func (s *SupermarketService) Registered() []domain.SupermarketType {
	out := make([]domain.SupermarketType, 0, len(s.providers))
	for t := range s.providers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supermarkets lists the seeded supermarket rows.
func (s *SupermarketService) Supermarkets(ctx context.Context) ([]domain.Supermarket, error) {
	out, err := repo.ListSupermarkets(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("list supermarkets: %w", err)
	}
	return out, nil
}

// Search queries a single supermarket. A blank term is a validation error;
// an unregistered supermarket yields ErrUnknownSupermarket.
func (s *SupermarketService) Search(ctx context.Context, market domain.SupermarketType, term string) ([]search.Product, error) {
	tr := otel.Tracer("services/SupermarketService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("supermarket", market.String()),
			attribute.Int("search.term_len", len(term)),
		),
	)
	defer span.End()

	if err := checkTerm(term); err != nil {
		return nil, err
	}
	p, ok := s.providers[market]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSupermarket, int(market))
	}
	return runSearch(ctx, p, term)
}

// SearchSome queries the given supermarkets concurrently and keys results
// by supermarket. Any unknown supermarket is rejected before a request is
// made; the first upstream failure fails the whole search.
func (s *SupermarketService) SearchSome(ctx context.Context, markets []domain.SupermarketType, term string) (map[domain.SupermarketType][]search.Product, error) {
	tr := otel.Tracer("services/SupermarketService")
	ctx, span := tr.Start(ctx, "SearchSome",
		trace.WithAttributes(attribute.Int("supermarket.count", len(markets))),
	)
	defer span.End()

	if err := checkTerm(term); err != nil {
		return nil, err
	}
	providers := make([]search.Provider, 0, len(markets))
	seen := make(map[domain.SupermarketType]bool, len(markets))
	for _, m := range markets {
		p, ok := s.providers[m]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownSupermarket, int(m))
		}
		if !seen[m] {
			seen[m] = true
			providers = append(providers, p)
		}
	}
	return fanOut(ctx, providers, term)
}

// SearchAll queries every registered supermarket concurrently.
func (s *SupermarketService) SearchAll(ctx context.Context, term string) (map[domain.SupermarketType][]search.Product, error) {
	tr := otel.Tracer("services/SupermarketService")
	ctx, span := tr.Start(ctx, "SearchAll",
		trace.WithAttributes(attribute.Int("supermarket.count", len(s.providers))),
	)
	defer span.End()

	if err := checkTerm(term); err != nil {
		return nil, err
	}
	providers := make([]search.Provider, 0, len(s.providers))
	for _, t := range s.Registered() {
		providers = append(providers, s.providers[t])
	}
	return fanOut(ctx, providers, term)
}

func fanOut(ctx context.Context, providers []search.Provider, term string) (map[domain.SupermarketType][]search.Product, error) {
	out := make(map[domain.SupermarketType][]search.Product, len(providers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range providers {
		g.Go(func() error {
			res, err := runSearch(gctx, p, term)
			if err != nil {
				return err
			}
			mu.Lock()
			out[p.Supermarket()] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func runSearch(ctx context.Context, p search.Provider, term string) ([]search.Product, error) {
	res, err := p.Search(ctx, term)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	searchRequests.WithLabelValues(p.Supermarket().String(), outcome).Inc()
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", p.Supermarket(), err)
	}
	if res == nil {
		res = []search.Product{}
	}
	return res, nil
}

func checkTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return newValidationError("term", "must not be blank")
	}
	return nil
}
