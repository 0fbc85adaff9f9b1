package services

import (
	"github.com/shopspring/decimal"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
)

// LinkingProductInput names the supermarket product an ingredient should be
// linked to. The product row is created on demand.
type LinkingProductInput struct {
	ID            int    `json:"id"            validate:"gt=0"`
	SupermarketID int    `json:"supermarketId" validate:"gt=0"`
	Name          string `json:"name"          validate:"notblank"`
}

func (l LinkingProductInput) key() domain.ProductKey {
	return domain.ProductKey{ID: l.ID, SupermarketID: l.SupermarketID}
}

// IngredientInput is one submitted ingredient. ID is only read on update,
// where nil means "create".
type IngredientInput struct {
	ID              *uint                `json:"id,omitempty"`
	Name            string               `json:"name"            validate:"notblank"`
	Quantity        decimal.Decimal      `json:"quantity"        validate:"gt=0"`
	MeasurementUnit string               `json:"measurementUnit" validate:"unit"`
	LinkingProduct  *LinkingProductInput `json:"linkingProduct,omitempty" validate:"omitempty"`
}

// InstructionInput is one submitted step. ID is only read on update.
type InstructionInput struct {
	ID          *uint  `json:"id,omitempty"`
	Order       int    `json:"order"       validate:"gte=0"`
	Description string `json:"description" validate:"notblank"`
}

// CreateRecipeCommand carries a full recipe shape. Nil collections mean
// empty. Tags are stored comma-joined, so a tag may not contain a comma.
type CreateRecipeCommand struct {
	Name            string             `json:"name"            validate:"notblank"`
	Description     string             `json:"description"`
	Tags            []string           `json:"tags"            validate:"dive,excludes=0x2C"`
	Servings        int                `json:"servings"        validate:"gt=0"`
	DurationMinutes int                `json:"durationMinutes" validate:"gt=0"`
	Ingredients     []IngredientInput  `json:"ingredients"     validate:"dive"`
	Instructions    []InstructionInput `json:"instructions"    validate:"unique=Order,dive"`
}

// Validate checks c and returns a *ValidationError listing every violation.
func (c CreateRecipeCommand) Validate() error { return validateStruct(c) }

// UpdateRecipeCommand replaces the recipe with id ID. Both collections are
// required; children are matched to persisted rows by their ids.
type UpdateRecipeCommand struct {
	ID              uint               `json:"-"`
	Name            string             `json:"name"            validate:"notblank"`
	Description     string             `json:"description"`
	Tags            []string           `json:"tags"            validate:"dive,excludes=0x2C"`
	Servings        int                `json:"servings"        validate:"gt=0"`
	DurationMinutes int                `json:"durationMinutes" validate:"gt=0"`
	Ingredients     []IngredientInput  `json:"ingredients"     validate:"required,unique=ID,dive"`
	Instructions    []InstructionInput `json:"instructions"    validate:"required,unique=Order,unique=ID,dive"`
}

// Validate checks c and returns a *ValidationError listing every violation.
func (c UpdateRecipeCommand) Validate() error { return validateStruct(c) }

// CreateProductCommand registers a supermarket product.
type CreateProductCommand struct {
	ID            int             `json:"id"            validate:"gt=0"`
	SupermarketID int             `json:"supermarketId" validate:"supermarket"`
	Name          string          `json:"name"          validate:"notblank"`
	FullPrice     decimal.Decimal `json:"fullPrice"     validate:"gt=0"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"  validate:"gt=0"`
}

// Validate checks c and returns a *ValidationError listing every violation.
func (c CreateProductCommand) Validate() error { return validateStruct(c) }

// UpdateProductCommand overwrites name and prices of an existing product.
// The key comes from the request path.
type UpdateProductCommand struct {
	ID            int             `json:"-"`
	SupermarketID int             `json:"-"`
	Name          string          `json:"name"         validate:"notblank"`
	FullPrice     decimal.Decimal `json:"fullPrice"    validate:"gt=0"`
	CurrentPrice  decimal.Decimal `json:"currentPrice" validate:"gt=0"`
}

// Validate checks c and returns a *ValidationError listing every violation.
func (c UpdateProductCommand) Validate() error { return validateStruct(c) }
