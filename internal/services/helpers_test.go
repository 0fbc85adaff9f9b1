package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
)

// newSvcDB opens a migrated file-backed SQLite DB with foreign keys enforced.
func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"))
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
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fixedClock returns a clock that advances by one second per call.
func fixedClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func idp(id uint) *uint { return &id }

// validCreate returns a command that passes validation.
func validCreate() CreateRecipeCommand {
	return CreateRecipeCommand{
		Name:            "Pancakes",
		Description:     "fluffy",
		Tags:            []string{"breakfast", "sweet"},
		Servings:        4,
		DurationMinutes: 20,
		Ingredients: []IngredientInput{
			{Name: "flour", Quantity: dec("1.5"), MeasurementUnit: "cup",
				LinkingProduct: &LinkingProductInput{ID: 100, SupermarketID: 1, Name: "Plain Flour 1kg"}},
			{Name: "milk", Quantity: dec("300"), MeasurementUnit: "millilitres"},
			{Name: "egg", Quantity: dec("2"), MeasurementUnit: "each"},
			{Name: "salt", Quantity: dec("1"), MeasurementUnit: "pinch"},
		},
		Instructions: []InstructionInput{
			{Order: 0, Description: "whisk"},
			{Order: 1, Description: "rest"},
			{Order: 2, Description: "fry"},
		},
	}
}
