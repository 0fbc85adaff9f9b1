package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
)

func TestProductCRUD(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	p := &domain.Product{ID: 5, SupermarketID: 1, Name: "Eggs", FullPrice: decimal.RequireFromString("6.50"), CurrentPrice: decimal.RequireFromString("5.00")}
	if err := CreateProduct(ctx, db, p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := CreateProduct(ctx, db, p); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := GetProduct(ctx, db, 1, 5)
	if err != nil || got.Name != "Eggs" || !got.FullPrice.Equal(decimal.RequireFromString("6.5")) {
		t.Fatalf("GetProduct = %+v, %v", got, err)
	}
	if _, err := GetProduct(ctx, db, 2, 5); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for other supermarket, got %v", err)
	}

	p.Name = "Free range eggs"
	p.CurrentPrice = decimal.RequireFromString("4.00")
	if err := UpdateProduct(ctx, db, p); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if err := UpdateProduct(ctx, db, &domain.Product{ID: 99, SupermarketID: 1, Name: "x"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	if err := CreateProduct(ctx, db, &domain.Product{ID: 6, SupermarketID: 1, Name: "Milk"}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	all, err := ListProducts(ctx, db, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListProducts(all) = %+v, %v", all, err)
	}
	some, err := ListProducts(ctx, db, []int{5})
	if err != nil || len(some) != 1 || some[0].Name != "Free range eggs" || !some[0].CurrentPrice.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("ListProducts(5) = %+v, %v", some, err)
	}

	removed, err := DeleteProduct(ctx, db, p.Key())
	if err != nil || !removed {
		t.Fatalf("DeleteProduct = %v, %v", removed, err)
	}
	removed, err = DeleteProduct(ctx, db, p.Key())
	if err != nil || removed {
		t.Fatalf("second DeleteProduct = %v, %v; want false, nil", removed, err)
	}
}

func TestUpsertProductLink_KeepsPrices(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if err := CreateProduct(ctx, db, &domain.Product{ID: 7, SupermarketID: 1, Name: "Butter", FullPrice: decimal.NewFromInt(5), CurrentPrice: decimal.NewFromInt(4)}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := UpsertProductLink(ctx, db, domain.Product{ID: 7, SupermarketID: 1, Name: "Salted butter"}); err != nil {
		t.Fatalf("UpsertProductLink: %v", err)
	}
	got, err := GetProduct(ctx, db, 1, 7)
	if err != nil || got.Name != "Salted butter" || !got.FullPrice.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("after upsert = %+v, %v", got, err)
	}
}

func TestUnlinkAndPrune(t *testing.T) {
	db := newRepoDB(t)
	r := seedRecipe(t, db)
	ctx := context.Background()
	key := domain.ProductKey{ID: 100, SupermarketID: 1}

	// Still referenced: nothing pruned.
	if n, err := PruneProducts(ctx, db, []domain.ProductKey{key}); err != nil || n != 0 {
		t.Fatalf("PruneProducts(referenced) = %d, %v", n, err)
	}
	if err := UnlinkProduct(ctx, db, key); err != nil {
		t.Fatalf("UnlinkProduct: %v", err)
	}
	got, _ := GetRecipe(ctx, db, r.ID)
	for _, ing := range got.Ingredients {
		if ing.HasProduct() {
			t.Fatalf("ingredient still linked: %+v", ing)
		}
	}
	if n, err := PruneProducts(ctx, db, []domain.ProductKey{key}); err != nil || n != 1 {
		t.Fatalf("PruneProducts(unreferenced) = %d, %v", n, err)
	}
}

func TestListSupermarkets(t *testing.T) {
	db := newRepoDB(t)
	got, err := ListSupermarkets(context.Background(), db)
	if err != nil || len(got) != 1 || got[0].ID != int(domain.SupermarketWoolworths) {
		t.Fatalf("ListSupermarkets = %+v, %v", got, err)
	}
}
