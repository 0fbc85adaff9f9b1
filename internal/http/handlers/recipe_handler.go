// Recipe HTTP handlers.
//
//   - GET    /recipes        (list, optional ?ids=1,2)
//   - GET    /recipes/{id}   (fetch one)
//   - POST   /recipes        (create, Idempotency-Key aware)
//   - PUT    /recipes/{id}   (full replace with child reconciliation)
//   - DELETE /recipes/{id}   (idempotent)
//
// Idempotency:
// If the client supplies an Idempotency-Key and a previous create for
// (client, route, key) is still on record, the handler answers 200 with the
// originally created id and sets `Idempotency-Replayed: true`.
package handlers

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/http/middleware"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
	"github.com/JaidenRM/recipe-shopper-api/internal/services"
	"github.com/JaidenRM/recipe-shopper-api/internal/utils"
)

//
// DTOs
//

// LinkingProductResponse is the product an ingredient points at.
type LinkingProductResponse struct {
	ID            int    `json:"id"            example:"123456"`
	SupermarketID int    `json:"supermarketId" example:"1"`
	Name          string `json:"name"          example:"Plain Flour 1kg"`
}

// IngredientResponse is one ingredient of a recipe.
type IngredientResponse struct {
	ID              uint                    `json:"id"              example:"7"`
	Name            string                  `json:"name"            example:"flour"`
	Quantity        decimal.Decimal         `json:"quantity"        swaggertype:"string" example:"1.5"`
	MeasurementUnit string                  `json:"measurementUnit" example:"cup"`
	LinkingProduct  *LinkingProductResponse `json:"linkingProduct"`
}

// InstructionResponse is one step of a recipe.
type InstructionResponse struct {
	ID          uint   `json:"id"          example:"3"`
	Order       int    `json:"order"       example:"0"`
	Description string `json:"description" example:"Whisk the batter"`
}

// RecipeResponse is the public shape of a recipe.
type RecipeResponse struct {
	ID              uint                  `json:"id"              example:"1"`
	Name            string                `json:"name"            example:"Pancakes"`
	Description     string                `json:"description"     example:"Fluffy Sunday pancakes"`
	Tags            []string              `json:"tags"`
	Servings        int                   `json:"servings"        example:"4"`
	DurationMinutes int                   `json:"durationMinutes" example:"25"`
	CreatedOnUTC    time.Time             `json:"createdOnUTC"`
	LastModifiedUTC time.Time             `json:"lastModifiedUTC"`
	Ingredients     []IngredientResponse  `json:"ingredients"`
	Instructions    []InstructionResponse `json:"instructions"`
}

// CreatedResponse carries the id of a newly created recipe.
type CreatedResponse struct {
	ID uint `json:"id" example:"42"`
}

func toRecipeResponse(r domain.Recipe) RecipeResponse {
	out := RecipeResponse{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Tags:            domain.SplitTags(r.Tags),
		Servings:        r.Servings,
		DurationMinutes: r.DurationMinutes,
		CreatedOnUTC:    r.CreatedOnUTC,
		LastModifiedUTC: r.LastModifiedUTC,
		Ingredients:     make([]IngredientResponse, 0, len(r.Ingredients)),
		Instructions:    make([]InstructionResponse, 0, len(r.Instructions)),
	}
	for _, ing := range r.Ingredients {
		ir := IngredientResponse{
			ID:              ing.ID,
			Name:            ing.Name,
			Quantity:        ing.Quantity,
			MeasurementUnit: ing.Unit.String(),
		}
		if k, linked := ing.ProductKey(); linked {
			lp := &LinkingProductResponse{ID: k.ID, SupermarketID: k.SupermarketID}
			if ing.Product != nil {
				lp.Name = ing.Product.Name
			}
			ir.LinkingProduct = lp
		}
		out.Ingredients = append(out.Ingredients, ir)
	}
	for _, ins := range r.Instructions {
		out.Instructions = append(out.Instructions, InstructionResponse{
			ID:          ins.ID,
			Order:       ins.Order,
			Description: ins.Description,
		})
	}
	return out
}

//
// Handlers
//

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes
// @Description Returns the recipes with the given ids, or every recipe when ids is omitted. Unknown ids are skipped.
// @Tags        Recipes
// @Produce     json
//
// @Param       ids  query  string  false  "Comma-separated recipe ids"  example(1,2)
//
// @Success     200  {object}  handlers.ListResponse[[]handlers.RecipeResponse]
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	ids, err := utils.ParseIDList[uint](c.QueryArray("ids"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	recipes, err := h.recipes.List(c.Request.Context(), ids)
	if err != nil {
		failFromError(c, err)
		return
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toRecipeResponse(r))
	}
	ok(c, http.StatusOK, ListResponse[[]RecipeResponse]{Results: out})
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Fetch a recipe
// @Tags        Recipes
// @Produce     json
//
// @Param       id  path  int  true  "Recipe ID"  minimum(1)
//
// @Success     200  {object}  handlers.RecipeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	id, valid := utils.ParseID[uint](c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a positive integer")
		return
	}

	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, toRecipeResponse(*r))
}

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Create a recipe
// @Description Validates the whole recipe (collecting every field error) and stores it with its ingredients and instructions in one transaction.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-Client-ID      header  string  false  "Caller identity (scopes idempotency and rate limits)"  example(web-app)
// @Param       Idempotency-Key  header  string  false  "Replays the first result for this key"  example(3f6c1e9a-create-1)
// @Param       body             body    services.CreateRecipeCommand  true  "Recipe"
//
// @Success     201  {object}  handlers.CreatedResponse
// @Header      201  {string}  Location  "URL of the new recipe"
// @Success     200  {object}  handlers.CreatedResponse  "Idempotent replay"
// @Header      200  {string}  Idempotency-Replayed  "true"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	ctx := c.Request.Context()

	var cmd services.CreateRecipeCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	client := middleware.ClientIDFrom(c)
	scope := middleware.IdempotencyScope(c)
	idemKey, hasKey := middleware.GetIdempotencyKey(c)
	hasKey = hasKey && h.db != nil

	// Replay path. The middleware already looked the key up; the record is
	// only read again to recover the recipe id. A record that expired in
	// between falls through to a normal create.
	if hasKey && middleware.IsReplay(c) {
		if rec, err := repo.GetIdempotency(ctx, h.db, client, scope, idemKey, time.Now().UTC()); err == nil {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			c.Header("Location", recipeLocation(c, rec.ResourceID))
			ok(c, http.StatusOK, CreatedResponse{ID: rec.ResourceID})
			return
		}
	}

	id, err := h.recipes.Create(ctx, cmd)
	if err != nil {
		failFromError(c, err)
		return
	}

	// Store path. A concurrent request may have stored the same key first;
	// the recipe is created either way.
	if hasKey {
		if _, err := repo.CreateIdempotency(ctx, h.db, client, scope, idemKey, id, http.StatusCreated, h.idemTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Str("idempotency_key", idemKey).Msg("idempotency record not stored")
		}
	}

	created(c, recipeLocation(c, id), CreatedResponse{ID: id})
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Replace a recipe
// @Description Replaces scalar fields and reconciles children by id: entries with a known id are updated, entries without an id are created, stored entries that are omitted are deleted. Unknown ids are ignored.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       id    path  int  true  "Recipe ID"  minimum(1)
// @Param       body  body  services.UpdateRecipeCommand  true  "Recipe"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/{id} [put]
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	id, valid := utils.ParseID[uint](c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a positive integer")
		return
	}

	var cmd services.UpdateRecipeCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cmd.ID = id

	if err := h.recipes.Update(c.Request.Context(), cmd); err != nil {
		failFromError(c, err)
		return
	}
	noContent(c)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Removes the recipe, its children, and products no other ingredient links to. Deleting a missing recipe also returns 204.
// @Tags        Recipes
//
// @Param       id  path  int  true  "Recipe ID"  minimum(1)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	id, valid := utils.ParseID[uint](c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a positive integer")
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}
	noContent(c)
}

// recipeLocation derives /<base>/recipes/{id} from the POST path.
func recipeLocation(c *gin.Context, id uint) string {
	return path.Join(c.Request.URL.Path, strconv.FormatUint(uint64(id), 10))
}
