package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
)

// ProductService manages supermarket products that ingredients link to.
type ProductService struct {
	DB *gorm.DB
}

func productSpan(ctx context.Context, op string, supermarketID, id int) (context.Context, trace.Span) {
	return otel.Tracer("services/ProductService").Start(ctx, op,
		trace.WithAttributes(
			attribute.Int("product.id", id),
			attribute.Int("supermarket.id", supermarketID),
		),
	)
}

// Create registers a new product. A taken (supermarket, id) pair yields
// ErrProductExists.
func (s *ProductService) Create(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	ctx, span := productSpan(ctx, "Create", cmd.SupermarketID, cmd.ID)
	defer span.End()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:            cmd.ID,
		SupermarketID: cmd.SupermarketID,
		Name:          cmd.Name,
		FullPrice:     cmd.FullPrice,
		CurrentPrice:  cmd.CurrentPrice,
	}
	if err := repo.CreateProduct(ctx, s.DB, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Get fetches one product by its composite key.
func (s *ProductService) Get(ctx context.Context, supermarketID, id int) (*domain.Product, error) {
	ctx, span := productSpan(ctx, "Get", supermarketID, id)
	defer span.End()

	p, err := repo.GetProduct(ctx, s.DB, supermarketID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List returns products whose retailer id is in ids, or all products when
// ids is empty.
func (s *ProductService) List(ctx context.Context, ids []int) ([]domain.Product, error) {
	ctx, span := otel.Tracer("services/ProductService").Start(ctx, "List",
		trace.WithAttributes(attribute.Int("product.ids", len(ids))),
	)
	defer span.End()

	out, err := repo.ListProducts(ctx, s.DB, ids)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Update overwrites the name and prices of an existing product.
func (s *ProductService) Update(ctx context.Context, cmd UpdateProductCommand) error {
	ctx, span := productSpan(ctx, "Update", cmd.SupermarketID, cmd.ID)
	defer span.End()

	if err := cmd.Validate(); err != nil {
		return err
	}
	err := repo.UpdateProduct(ctx, s.DB, &domain.Product{
		ID:            cmd.ID,
		SupermarketID: cmd.SupermarketID,
		Name:          cmd.Name,
		FullPrice:     cmd.FullPrice,
		CurrentPrice:  cmd.CurrentPrice,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product and clears every ingredient link pointing at it.
// Deleting an unknown product is not an error.
func (s *ProductService) Delete(ctx context.Context, supermarketID, id int) error {
	ctx, span := productSpan(ctx, "Delete", supermarketID, id)
	defer span.End()

	k := domain.ProductKey{ID: id, SupermarketID: supermarketID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UnlinkProduct(ctx, tx, k); err != nil {
			return err
		}
		_, err := repo.DeleteProduct(ctx, tx, k)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
