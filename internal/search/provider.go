// Package search queries external supermarket catalogues for products
// matching a free-text term. Each retailer is a Provider; callers decide how
// many providers to fan out to and how to log failures.
//
//   - No logging in the library
//   - Functional options for client construction
//   - Deterministic relevance ordering of results (see Rank)
package search

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
)

// ErrUpstream wraps any failure talking to a retailer (transport error,
// non-2xx status, undecodable body).
var ErrUpstream = errors.New("supermarket upstream error")

// Images holds optional product image URLs by size.
type Images struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// Product is one catalogue hit. ID is the retailer's stock code.
type Product struct {
	ID            int                    `json:"id"`
	SupermarketID domain.SupermarketType `json:"supermarketId"`
	Name          string                 `json:"name"`
	FullPrice     decimal.Decimal        `json:"fullPrice"`
	CurrentPrice  decimal.Decimal        `json:"currentPrice"`
	Images        *Images                `json:"images,omitempty"`
}

// Provider searches a single retailer.
type Provider interface {
	Supermarket() domain.SupermarketType
	Search(ctx context.Context, term string) ([]Product, error)
}
