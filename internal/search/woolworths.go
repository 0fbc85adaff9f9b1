package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
)

// DefaultWoolworthsBaseURL is the public Woolworths (Australia) site.
const DefaultWoolworthsBaseURL = "https://www.woolworths.com.au"

const woolworthsSearchPath = "/apis/ui/Search/products"

// Option configures a Woolworths client.
type Option func(*Woolworths)

// WithBaseURL overrides the retailer origin (tests point this at httptest).
func WithBaseURL(u string) Option {
	return func(w *Woolworths) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			w.baseURL = u
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its transport is used as-is.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Woolworths) {
		if c != nil {
			w.client = c
		}
	}
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) Option {
	return func(w *Woolworths) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithRanking toggles relevance ordering of results (on by default).
func WithRanking(on bool) Option {
	return func(w *Woolworths) { w.rank = on }
}

// Woolworths is a Provider backed by the Woolworths product search API.
type Woolworths struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	rank    bool
}

// NewWoolworths builds a client with an OpenTelemetry-instrumented transport.
func NewWoolworths(opts ...Option) *Woolworths {
	w := &Woolworths{
		baseURL: DefaultWoolworthsBaseURL,
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout: 10 * time.Second,
		rank:    true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Supermarket implements Provider.
func (w *Woolworths) Supermarket() domain.SupermarketType { return domain.SupermarketWoolworths }

// woolworthsResponse mirrors the subset of the search payload we read.
// Products is a list of bundles, each holding the actual product entries.
type woolworthsResponse struct {
	Products []struct {
		Products []woolworthsProduct `json:"Products"`
	} `json:"Products"`
}

type woolworthsProduct struct {
	Stockcode       int              `json:"Stockcode"`
	Name            string           `json:"Name"`
	Price           *decimal.Decimal `json:"Price"`
	WasPrice        *decimal.Decimal `json:"WasPrice"`
	SmallImageFile  string           `json:"SmallImageFile"`
	MediumImageFile string           `json:"MediumImageFile"`
	LargeImageFile  string           `json:"LargeImageFile"`
}

// Search implements Provider.
func (w *Woolworths) Search(ctx context.Context, term string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	u := w.baseURL + woolworthsSearchPath + "?" + url.Values{"searchTerm": {term}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	// The public endpoint rejects requests without a browser-like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; recipe-shopper-api)")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: woolworths returned %d", ErrUpstream, resp.StatusCode)
	}

	var body woolworthsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	out := make([]Product, 0)
	for _, bundle := range body.Products {
		for _, p := range bundle.Products {
			out = append(out, p.toProduct())
		}
	}
	if w.rank {
		Rank(term, out)
	}
	return out, nil
}

func (p woolworthsProduct) toProduct() Product {
	out := Product{
		ID:            p.Stockcode,
		SupermarketID: domain.SupermarketWoolworths,
		Name:          p.Name,
		FullPrice:     decimal.Zero,
		CurrentPrice:  decimal.Zero,
	}
	if p.WasPrice != nil {
		out.FullPrice = *p.WasPrice
	}
	if p.Price != nil {
		out.CurrentPrice = *p.Price
	}
	if p.SmallImageFile != "" || p.MediumImageFile != "" || p.LargeImageFile != "" {
		out.Images = &Images{Small: p.SmallImageFile, Medium: p.MediumImageFile, Large: p.LargeImageFile}
	}
	return out
}
