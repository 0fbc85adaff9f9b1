// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe
// aggregate and its owned Ingredient and Instruction rows.
//
// All functions are context-aware and accept a *gorm.DB handle so they can
// run inside a caller-owned transaction. They hold no business rules: the
// services package decides what to create, update, or delete.
//
// Error semantics:
//   - A missing recipe yields ErrNotFound.
//   - Other DB errors (constraint violations, connectivity) propagate as-is.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
)

// instructionOrder sorts instructions by their (quoted) order column.
var instructionOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

func preloadAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Ingredients.Product").
		Preload("Instructions", func(tx *gorm.DB) *gorm.DB { return tx.Order(instructionOrder) })
}

// CreateRecipe inserts r together with its ingredients and instructions.
// Products referenced by ingredient links must already exist.
func CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	return db.WithContext(ctx).Omit("Ingredients.Product").Create(r).Error
}

// GetRecipe loads one recipe with its children and linked products.
func GetRecipe(ctx context.Context, db *gorm.DB, id uint) (*domain.Recipe, error) {
	var r domain.Recipe
	err := preloadAggregate(db.WithContext(ctx)).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecipes returns the recipes with the given ids, or every recipe when
// ids is empty, ordered by id.
func ListRecipes(ctx context.Context, db *gorm.DB, ids []uint) ([]domain.Recipe, error) {
	q := preloadAggregate(db.WithContext(ctx)).Order("id")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var out []domain.Recipe
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRecipeFields overwrites the scalar columns of r, zero values included.
func UpdateRecipeFields(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	res := db.WithContext(ctx).Model(&domain.Recipe{ID: r.ID}).
		Updates(map[string]any{
			"name":              r.Name,
			"description":       r.Description,
			"tags":              r.Tags,
			"servings":          r.Servings,
			"duration_minutes":  r.DurationMinutes,
			"last_modified_utc": r.LastModifiedUTC,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe and its children. It reports whether the
// recipe existed.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	tx := db.WithContext(ctx)
	if err := tx.Where("recipe_id = ?", id).Delete(&domain.Ingredient{}).Error; err != nil {
		return false, err
	}
	if err := tx.Where("recipe_id = ?", id).Delete(&domain.Instruction{}).Error; err != nil {
		return false, err
	}
	res := tx.Delete(&domain.Recipe{}, id)
	return res.RowsAffected > 0, res.Error
}

// CreateIngredients inserts new ingredients. Their RecipeID must be set.
func CreateIngredients(ctx context.Context, db *gorm.DB, ings []domain.Ingredient) error {
	if len(ings) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(&ings).Error
}

// SaveIngredient writes every column of an existing ingredient, including a
// cleared product link.
func SaveIngredient(ctx context.Context, db *gorm.DB, ing *domain.Ingredient) error {
	return db.WithContext(ctx).Model(&domain.Ingredient{ID: ing.ID}).
		Updates(map[string]any{
			"name":           ing.Name,
			"quantity":       ing.Quantity,
			"unit":           ing.Unit,
			"product_id":     ing.ProductID,
			"supermarket_id": ing.SupermarketID,
		}).Error
}

// DeleteIngredients hard-deletes ingredients by id.
func DeleteIngredients(ctx context.Context, db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Delete(&domain.Ingredient{}, ids).Error
}

// CreateInstructions inserts new instructions. Their RecipeID must be set.
func CreateInstructions(ctx context.Context, db *gorm.DB, ins []domain.Instruction) error {
	if len(ins) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&ins).Error
}

// SaveInstruction writes the order and description of an existing instruction.
func SaveInstruction(ctx context.Context, db *gorm.DB, in *domain.Instruction) error {
	return db.WithContext(ctx).Model(&domain.Instruction{ID: in.ID}).
		Updates(map[string]any{"order": in.Order, "description": in.Description}).Error
}

// ParkInstruction moves an instruction onto a scratch order value that can
// never collide with a valid (non-negative) order.
func ParkInstruction(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Model(&domain.Instruction{ID: id}).
		Update("order", -int(id)-1).Error
}

// DeleteInstructions hard-deletes instructions by id.
func DeleteInstructions(ctx context.Context, db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Delete(&domain.Instruction{}, ids).Error
}
