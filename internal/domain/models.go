// Package domain defines the persistence models for recipes, their
// ingredients and instructions, and supermarket products. These types are
// mapped with GORM and form the core data layer of the RecipeShopper API.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is the aggregate root. Ingredients and Instructions are owned by
// exactly one recipe and are removed with it.
//
// Fields:
//   - ID: autoincrement primary key.
//   - Tags: comma-joined tag list (see SplitTags / JoinTags).
//   - Servings / DurationMinutes: both strictly positive.
//   - CreatedOnUTC: set once on creation.
//   - LastModifiedUTC: moved forward on every mutation.
type Recipe struct {
	ID              uint      `json:"id"              gorm:"primaryKey"`
	Name            string    `json:"name"            gorm:"type:varchar(255);not null"`
	Description     string    `json:"description"     gorm:"type:text;not null;default:''"`
	Tags            string    `json:"tags"            gorm:"type:text;not null;default:''"`
	Servings        int       `json:"servings"        gorm:"not null"`
	DurationMinutes int       `json:"durationMinutes" gorm:"not null"`
	CreatedOnUTC    time.Time `json:"createdOnUTC"    gorm:"column:created_on_utc;not null"`
	LastModifiedUTC time.Time `json:"lastModifiedUTC" gorm:"column:last_modified_utc;not null;index"`

	Ingredients  []Ingredient  `json:"ingredients"  gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Instructions []Instruction `json:"instructions" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// Ingredient is a quantity of something a recipe needs. It may be linked to
// a supermarket Product through the composite key (ProductID, SupermarketID);
// both columns are set together or both are NULL.
type Ingredient struct {
	ID            uint            `json:"id"            gorm:"primaryKey"`
	RecipeID      uint            `json:"recipeId"      gorm:"not null;index"`
	Name          string          `json:"name"          gorm:"type:varchar(255);not null"`
	Quantity      decimal.Decimal `json:"quantity"      gorm:"type:decimal(12,3);not null"`
	Unit          MeasurementUnit `json:"unit"          gorm:"type:varchar(16);not null"`
	ProductID     *int            `json:"productId"     gorm:"index:idx_ingredient_product,priority:1"`
	SupermarketID *int            `json:"supermarketId" gorm:"index:idx_ingredient_product,priority:2"`

	// Product is the optional linked supermarket item.
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID,SupermarketID;references:ID,SupermarketID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Ingredient.
func (Ingredient) TableName() string { return "ingredients" }

// HasProduct reports whether the ingredient carries a complete product link.
func (i Ingredient) HasProduct() bool {
	return i.ProductID != nil && i.SupermarketID != nil
}

// ProductKey returns the linked product key, if any.
func (i Ingredient) ProductKey() (ProductKey, bool) {
	if !i.HasProduct() {
		return ProductKey{}, false
	}
	return ProductKey{ID: *i.ProductID, SupermarketID: *i.SupermarketID}, true
}

// Link points the ingredient at k.
func (i *Ingredient) Link(k ProductKey) {
	id, sm := k.ID, k.SupermarketID
	i.ProductID = &id
	i.SupermarketID = &sm
}

// Unlink clears the product link.
func (i *Ingredient) Unlink() {
	i.ProductID = nil
	i.SupermarketID = nil
	i.Product = nil
}

// Instruction is one step of a recipe. Order values are unique within a
// recipe but need not be contiguous.
type Instruction struct {
	ID          uint   `json:"id"          gorm:"primaryKey"`
	RecipeID    uint   `json:"recipeId"    gorm:"not null;uniqueIndex:ux_instruction_recipe_order,priority:1"`
	Order       int    `json:"order"       gorm:"column:order;not null;uniqueIndex:ux_instruction_recipe_order,priority:2"`
	Description string `json:"description" gorm:"type:text;not null"`
}

// TableName returns the database table name for Instruction.
func (Instruction) TableName() string { return "instructions" }

// Product is an item sold by a specific supermarket, keyed by the pair
// (ID, SupermarketID). ID is the retailer's own stock code.
type Product struct {
	ID            int             `json:"id"            gorm:"primaryKey;autoIncrement:false"`
	SupermarketID int             `json:"supermarketId" gorm:"primaryKey;autoIncrement:false"`
	Name          string          `json:"name"          gorm:"type:varchar(255);not null"`
	FullPrice     decimal.Decimal `json:"fullPrice"     gorm:"type:decimal(12,2);not null;default:0"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"  gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// Key returns the composite key of p.
func (p Product) Key() ProductKey {
	return ProductKey{ID: p.ID, SupermarketID: p.SupermarketID}
}

// ProductKey is the composite identity of a Product.
type ProductKey struct {
	ID            int
	SupermarketID int
}

// Supermarket is a retailer products can be linked to.
type Supermarket struct {
	ID   int    `json:"id"   gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"type:varchar(64);not null;uniqueIndex"`
}

// TableName returns the database table name for Supermarket.
func (Supermarket) TableName() string { return "supermarkets" }

// JoinTags serializes a tag list into the stored comma-joined form. Blank
// tags are dropped and surrounding whitespace trimmed.
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

// SplitTags is the inverse of JoinTags. An empty string yields an empty,
// non-nil slice.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
