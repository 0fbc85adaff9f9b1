// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Product
// and Supermarket models.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
)

var productKeyColumns = []clause.Column{{Name: "id"}, {Name: "supermarket_id"}}

// CreateProduct inserts p. It returns ErrDuplicate when the composite key
// is already taken.
func CreateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpsertProductLink makes sure a product row exists for p's key and carries
// p's name. Prices of an existing row are left untouched.
func UpsertProductLink(ctx context.Context, db *gorm.DB, p domain.Product) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   productKeyColumns,
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&p).Error
}

// GetProduct fetches one product by its composite key.
func GetProduct(ctx context.Context, db *gorm.DB, supermarketID, id int) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).
		Where("id = ? AND supermarket_id = ?", id, supermarketID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products whose retailer id is in ids, or every
// product when ids is empty.
func ListProducts(ctx context.Context, db *gorm.DB, ids []int) ([]domain.Product, error) {
	q := db.WithContext(ctx).Order("supermarket_id").Order("id")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var out []domain.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProduct overwrites name and prices. It returns ErrNotFound if no
// row matches p's key.
func UpdateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	res := db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND supermarket_id = ?", p.ID, p.SupermarketID).
		Updates(map[string]any{
			"name":          p.Name,
			"full_price":    p.FullPrice,
			"current_price": p.CurrentPrice,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UnlinkProduct clears every ingredient link pointing at k.
func UnlinkProduct(ctx context.Context, db *gorm.DB, k domain.ProductKey) error {
	return db.WithContext(ctx).Model(&domain.Ingredient{}).
		Where("product_id = ? AND supermarket_id = ?", k.ID, k.SupermarketID).
		Updates(map[string]any{"product_id": nil, "supermarket_id": nil}).Error
}

// DeleteProduct removes the product with key k. It reports whether a row
// was removed.
func DeleteProduct(ctx context.Context, db *gorm.DB, k domain.ProductKey) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND supermarket_id = ?", k.ID, k.SupermarketID).
		Delete(&domain.Product{})
	return res.RowsAffected > 0, res.Error
}

// PruneProducts deletes the products among keys that no ingredient links to
// any more and returns how many rows were removed.
func PruneProducts(ctx context.Context, db *gorm.DB, keys []domain.ProductKey) (int64, error) {
	var removed int64
	for _, k := range keys {
		res := db.WithContext(ctx).
			Where("id = ? AND supermarket_id = ?", k.ID, k.SupermarketID).
			Where("NOT EXISTS (SELECT 1 FROM ingredients i WHERE i.product_id = products.id AND i.supermarket_id = products.supermarket_id)").
			Delete(&domain.Product{})
		if res.Error != nil {
			return removed, res.Error
		}
		removed += res.RowsAffected
	}
	return removed, nil
}

// ListSupermarkets returns the seeded supermarkets ordered by id.
func ListSupermarkets(ctx context.Context, db *gorm.DB) ([]domain.Supermarket, error) {
	var out []domain.Supermarket
	if err := db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
