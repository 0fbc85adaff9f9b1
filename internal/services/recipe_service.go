// Package services – RecipeService
//
// RecipeService owns the recipe aggregate: a recipe with its ingredients
// (optionally linked to supermarket products) and ordered instructions.
// Every entry point validates its command first and then performs all
// writes in one transaction.
//
// Updates reconcile the submitted child collections against the persisted
// ones (see DiffChildren): matched children are updated in place, omitted
// children are deleted and children without an id are created. Products
// that lose their last linking ingredient are removed with it.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
)

const (
	collIngredients  = "ingredients"
	collInstructions = "instructions"
)

// RecipeService coordinates recipe persistence.
type RecipeService struct {
	DB *gorm.DB

	// Now is the clock used for CreatedOnUTC / LastModifiedUTC. Nil means
	// time.Now.
	Now func() time.Time
}

// NewRecipeService returns a RecipeService using the wall clock.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{DB: db}
}

func (s *RecipeService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create validates cmd and persists a new recipe with its children,
// returning the new id. Linked products are created (or renamed) first.
func (s *RecipeService) Create(ctx context.Context, cmd CreateRecipeCommand) (uint, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int("recipe.ingredients", len(cmd.Ingredients)),
			attribute.Int("recipe.instructions", len(cmd.Instructions)),
		),
	)
	defer span.End()

	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := s.now()
	r := &domain.Recipe{
		Name:            cmd.Name,
		Description:     cmd.Description,
		Tags:            domain.JoinTags(cmd.Tags),
		Servings:        cmd.Servings,
		DurationMinutes: cmd.DurationMinutes,
		CreatedOnUTC:    now,
		LastModifiedUTC: now,
	}
	for _, in := range cmd.Ingredients {
		var ing domain.Ingredient
		if err := applyIngredient(&ing, in); err != nil {
			return 0, err
		}
		r.Ingredients = append(r.Ingredients, ing)
	}
	for _, in := range cmd.Instructions {
		r.Instructions = append(r.Instructions, domain.Instruction{Order: in.Order, Description: in.Description})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range cmd.Ingredients {
			if err := upsertLink(ctx, tx, in.LinkingProduct); err != nil {
				return err
			}
		}
		return repo.CreateRecipe(ctx, tx, r)
	})
	if err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}

	var tally changeTally
	tally.add(collIngredients, "create", len(r.Ingredients))
	tally.add(collInstructions, "create", len(r.Instructions))
	tally.flush()

	span.SetAttributes(attribute.Int64("recipe.id", int64(r.ID)))
	return r.ID, nil
}

// Get returns the recipe with its ingredients (and linked products) and its
// instructions in ascending order.
func (s *RecipeService) Get(ctx context.Context, id uint) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("recipe.id", int64(id))),
	)
	defer span.End()

	r, err := repo.GetRecipe(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return r, nil
}

// List returns the recipes with the given ids, or all recipes when ids is
// empty. Unknown ids are skipped.
func (s *RecipeService) List(ctx context.Context, ids []uint) ([]domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.Int("recipe.ids", len(ids))),
	)
	defer span.End()

	out, err := repo.ListRecipes(ctx, s.DB, ids)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return out, nil
}

// Update validates cmd and replaces the recipe's scalars and child
// collections in one transaction. An unknown recipe id yields
// ErrRecipeNotFound and nothing is written.
func (s *RecipeService) Update(ctx context.Context, cmd UpdateRecipeCommand) error {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.Int64("recipe.id", int64(cmd.ID))),
	)
	defer span.End()

	if err := cmd.Validate(); err != nil {
		return err
	}

	var tally changeTally
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := repo.GetRecipe(ctx, tx, cmd.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return err
		}

		cur.Name = cmd.Name
		cur.Description = cmd.Description
		cur.Tags = domain.JoinTags(cmd.Tags)
		cur.Servings = cmd.Servings
		cur.DurationMinutes = cmd.DurationMinutes
		// never move the timestamp backwards, even with a skewed clock
		if now := s.now(); now.After(cur.LastModifiedUTC) {
			cur.LastModifiedUTC = now
		}
		if err := repo.UpdateRecipeFields(ctx, tx, cur); err != nil {
			return err
		}

		orphans, err := reconcileIngredients(ctx, tx, cur, cmd.Ingredients, &tally)
		if err != nil {
			return err
		}
		if err := reconcileInstructions(ctx, tx, cur, cmd.Instructions, &tally); err != nil {
			return err
		}

		n, err := repo.PruneProducts(ctx, tx, orphans)
		if err != nil {
			return err
		}
		tally.pruned = n
		return nil
	})
	if errors.Is(err, ErrRecipeNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("update recipe %d: %w", cmd.ID, err)
	}
	tally.flush()
	return nil
}

// Delete removes the recipe, its children, and any linked products nothing
// else references. Deleting an unknown id is not an error.
func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int64("recipe.id", int64(id))),
	)
	defer span.End()

	var tally changeTally
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := repo.GetRecipe(ctx, tx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var keys []domain.ProductKey
		for _, ing := range cur.Ingredients {
			if k, ok := ing.ProductKey(); ok {
				keys = append(keys, k)
			}
		}
		if _, err := repo.DeleteRecipe(ctx, tx, id); err != nil {
			return err
		}
		n, err := repo.PruneProducts(ctx, tx, keys)
		if err != nil {
			return err
		}
		tally.add(collIngredients, "delete", len(cur.Ingredients))
		tally.add(collInstructions, "delete", len(cur.Instructions))
		tally.pruned = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	tally.flush()
	return nil
}

// reconcileIngredients applies the submitted ingredients to r and returns
// the keys of products that lost a link and may now be orphaned.
func reconcileIngredients(ctx context.Context, tx *gorm.DB, r *domain.Recipe, submitted []IngredientInput, tally *changeTally) ([]domain.ProductKey, error) {
	diff := DiffChildren(r.Ingredients, submitted,
		func(i domain.Ingredient) uint { return i.ID },
		func(in IngredientInput) *uint { return in.ID },
	)

	var orphans []domain.ProductKey

	ids := make([]uint, 0, len(diff.Delete))
	for _, ing := range diff.Delete {
		ids = append(ids, ing.ID)
		if k, ok := ing.ProductKey(); ok {
			orphans = append(orphans, k)
		}
	}
	if err := repo.DeleteIngredients(ctx, tx, ids); err != nil {
		return nil, err
	}

	for _, m := range diff.Update {
		ing := m.Persisted
		prev, hadLink := ing.ProductKey()
		if err := applyIngredient(&ing, m.Submitted); err != nil {
			return nil, err
		}
		if err := upsertLink(ctx, tx, m.Submitted.LinkingProduct); err != nil {
			return nil, err
		}
		if next, ok := ing.ProductKey(); hadLink && (!ok || next != prev) {
			orphans = append(orphans, prev)
		}
		if err := repo.SaveIngredient(ctx, tx, &ing); err != nil {
			return nil, err
		}
	}

	created := make([]domain.Ingredient, 0, len(diff.Create))
	for _, in := range diff.Create {
		if err := upsertLink(ctx, tx, in.LinkingProduct); err != nil {
			return nil, err
		}
		ing := domain.Ingredient{RecipeID: r.ID}
		if err := applyIngredient(&ing, in); err != nil {
			return nil, err
		}
		created = append(created, ing)
	}
	if err := repo.CreateIngredients(ctx, tx, created); err != nil {
		return nil, err
	}

	tally.add(collIngredients, "delete", len(diff.Delete))
	tally.add(collIngredients, "update", len(diff.Update))
	tally.add(collIngredients, "create", len(diff.Create))
	return orphans, nil
}

// reconcileInstructions applies the submitted instructions to r. Rows whose
// order changes are parked on a negative scratch order first so that the
// (recipe_id, order) unique index never sees a transient duplicate.
func reconcileInstructions(ctx context.Context, tx *gorm.DB, r *domain.Recipe, submitted []InstructionInput, tally *changeTally) error {
	diff := DiffChildren(r.Instructions, submitted,
		func(i domain.Instruction) uint { return i.ID },
		func(in InstructionInput) *uint { return in.ID },
	)

	ids := make([]uint, 0, len(diff.Delete))
	for _, in := range diff.Delete {
		ids = append(ids, in.ID)
	}
	if err := repo.DeleteInstructions(ctx, tx, ids); err != nil {
		return err
	}

	for _, m := range diff.Update {
		if m.Persisted.Order != m.Submitted.Order {
			if err := repo.ParkInstruction(ctx, tx, m.Persisted.ID); err != nil {
				return err
			}
		}
	}
	for _, m := range diff.Update {
		in := m.Persisted
		in.Order = m.Submitted.Order
		in.Description = m.Submitted.Description
		if err := repo.SaveInstruction(ctx, tx, &in); err != nil {
			return err
		}
	}

	created := make([]domain.Instruction, 0, len(diff.Create))
	for _, in := range diff.Create {
		created = append(created, domain.Instruction{RecipeID: r.ID, Order: in.Order, Description: in.Description})
	}
	if err := repo.CreateInstructions(ctx, tx, created); err != nil {
		return err
	}

	tally.add(collInstructions, "delete", len(diff.Delete))
	tally.add(collInstructions, "update", len(diff.Update))
	tally.add(collInstructions, "create", len(diff.Create))
	return nil
}

// applyIngredient copies the submitted fields onto ing, including the
// product link (or its absence).
func applyIngredient(ing *domain.Ingredient, in IngredientInput) error {
	unit, err := domain.ParseMeasurementUnit(in.MeasurementUnit)
	if err != nil {
		return err
	}
	ing.Name = in.Name
	ing.Quantity = in.Quantity
	ing.Unit = unit
	if in.LinkingProduct == nil {
		ing.Unlink()
	} else {
		ing.Link(in.LinkingProduct.key())
		ing.Product = nil
	}
	return nil
}

func upsertLink(ctx context.Context, tx *gorm.DB, lp *LinkingProductInput) error {
	if lp == nil {
		return nil
	}
	return repo.UpsertProductLink(ctx, tx, domain.Product{
		ID:            lp.ID,
		SupermarketID: lp.SupermarketID,
		Name:          lp.Name,
	})
}
