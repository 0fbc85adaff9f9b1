package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Recipe{}).TableName():      "recipes",
		(Ingredient{}).TableName():  "ingredients",
		(Instruction{}).TableName(): "instructions",
		(Product{}).TableName():     "products",
		(Supermarket{}).TableName(): "supermarkets",
		(Idempotency{}).TableName(): "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&Supermarket{}, &Product{}, &Recipe{}, &Ingredient{}, &Instruction{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&Recipe{}, &Ingredient{}, &Instruction{}, &Product{}, &Supermarket{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&Instruction{}, "ux_instruction_recipe_order") {
		t.Fatalf("expected unique index ux_instruction_recipe_order on instructions")
	}
	if !m.HasIndex(&Ingredient{}, "idx_ingredient_product") {
		t.Fatalf("expected index idx_ingredient_product on ingredients")
	}

	now := time.Now().UTC()
	p := &Product{ID: 42, SupermarketID: 1, Name: "Milk", FullPrice: decimal.NewFromInt(3), CurrentPrice: decimal.NewFromInt(2)}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}

	r := &Recipe{Name: "Pancakes", Servings: 2, DurationMinutes: 20, CreatedOnUTC: now, LastModifiedUTC: now}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("insert recipe: %v", err)
	}

	ing := &Ingredient{RecipeID: r.ID, Name: "milk", Quantity: decimal.RequireFromString("1.5"), Unit: UnitCup}
	ing.Link(p.Key())
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("insert ingredient: %v", err)
	}
	if err := db.Create(&Instruction{RecipeID: r.ID, Order: 0, Description: "mix"}).Error; err != nil {
		t.Fatalf("insert instruction: %v", err)
	}

	// Unique (recipe_id, order)
	if err := db.Create(&Instruction{RecipeID: r.ID, Order: 0, Description: "again"}).Error; err == nil {
		t.Fatalf("expected unique violation on (recipe_id, order)")
	}

	// Readback with the composite product link
	var got Recipe
	if err := db.Preload("Ingredients.Product").Preload("Instructions").First(&got, r.ID).Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Product == nil || got.Ingredients[0].Product.Name != "Milk" {
		t.Fatalf("expected linked product to preload, got %+v", got.Ingredients)
	}
	if got.Ingredients[0].Unit != UnitCup {
		t.Fatalf("unit = %v; want cup", got.Ingredients[0].Unit)
	}
	if !got.Ingredients[0].Quantity.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("quantity = %s; want 1.5", got.Ingredients[0].Quantity)
	}

	// CASCADE: deleting the recipe removes its children
	if err := db.Delete(&Recipe{}, r.ID).Error; err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	var cnt int64
	if err := db.Model(&Ingredient{}).Where("recipe_id = ?", r.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected ingredients to cascade-delete, got count=%d", cnt)
	}
	if err := db.Model(&Instruction{}).Where("recipe_id = ?", r.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count instructions: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected instructions to cascade-delete, got count=%d", cnt)
	}
}

func TestIngredientLink(t *testing.T) {
	var ing Ingredient
	if ing.HasProduct() {
		t.Fatalf("zero ingredient should have no product")
	}
	ing.Link(ProductKey{ID: 7, SupermarketID: 1})
	k, ok := ing.ProductKey()
	if !ok || k.ID != 7 || k.SupermarketID != 1 {
		t.Fatalf("ProductKey() = %+v, %v", k, ok)
	}
	ing.Unlink()
	if ing.HasProduct() || ing.ProductID != nil || ing.SupermarketID != nil {
		t.Fatalf("Unlink left a partial link: %+v", ing)
	}
}

func TestTags(t *testing.T) {
	if got := JoinTags([]string{" quick ", "", "vegan"}); got != "quick,vegan" {
		t.Fatalf("JoinTags = %q", got)
	}
	got := SplitTags("quick, vegan,,")
	if len(got) != 2 || got[0] != "quick" || got[1] != "vegan" {
		t.Fatalf("SplitTags = %v", got)
	}
	if empty := SplitTags(""); empty == nil || len(empty) != 0 {
		t.Fatalf("SplitTags(\"\") = %#v; want empty non-nil", empty)
	}
}

func TestSupermarkets(t *testing.T) {
	if !SupermarketWoolworths.Valid() || SupermarketWoolworths.String() != "Woolworths" {
		t.Fatalf("woolworths should be valid and named")
	}
	if SupermarketType(99).Valid() {
		t.Fatalf("99 should not be a known supermarket")
	}
	seed := SeedSupermarkets()
	if len(seed) != 1 || seed[0].ID != 1 || seed[0].Name != "Woolworths" {
		t.Fatalf("unexpected seed %+v", seed)
	}
}
