// Product HTTP handlers.
//
// Products are keyed by (supermarketId, id), so single-product routes nest
// under the supermarket:
//   - GET    /products?ids=1,2
//   - POST   /products
//   - GET    /supermarkets/{supermarketId}/products/{id}
//   - PUT    /supermarkets/{supermarketId}/products/{id}
//   - DELETE /supermarkets/{supermarketId}/products/{id}
package handlers

import (
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/services"
	"github.com/JaidenRM/recipe-shopper-api/internal/utils"
)

// productKeyParams parses the composite key from the path, writing 400 and
// returning false when either half is malformed.
func productKeyParams(c *gin.Context) (supermarketID, id int, valid bool) {
	supermarketID, okSM := utils.ParseID[int](c.Param("supermarketId"))
	id, okID := utils.ParseID[int](c.Param("id"))
	if !okSM || !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "supermarket id and product id must be positive integers")
		return 0, 0, false
	}
	return supermarketID, id, true
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List stored products
// @Description Returns stored products whose id is in ids (across supermarkets), or all products when ids is omitted.
// @Tags        Products
// @Produce     json
//
// @Param       ids  query  string  false  "Comma-separated product ids"  example(123456,654321)
//
// @Success     200  {object}  handlers.ListResponse[[]domain.Product]
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	ids, err := utils.ParseIDList[int](c.QueryArray("ids"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	products, err := h.products.List(c.Request.Context(), ids)
	if err != nil {
		failFromError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	ok(c, http.StatusOK, ListResponse[[]domain.Product]{Results: products})
}

// GetProduct godoc
// @ID          getProduct
// @Summary     Fetch a stored product
// @Tags        Products
// @Produce     json
//
// @Param       supermarketId  path  int  true  "Supermarket ID"  example(1)
// @Param       id             path  int  true  "Product ID"      example(123456)
//
// @Success     200  {object}  domain.Product
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Product not found"
// @Router      /supermarkets/{supermarketId}/products/{id} [get]
func (h *Handlers) GetProduct(c *gin.Context) {
	supermarketID, id, valid := productKeyParams(c)
	if !valid {
		return
	}

	p, err := h.products.Get(c.Request.Context(), supermarketID, id)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// CreateProduct godoc
// @ID          createProduct
// @Summary     Store a product
// @Description Stores a supermarket product so ingredients can link to it. The current price may not exceed the full price.
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.CreateProductCommand  true  "Product"
//
// @Success     201  {object}  domain.Product
// @Header      201  {string}  Location  "URL of the new product"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse  "Product already exists"
// @Router      /products [post]
func (h *Handlers) CreateProduct(c *gin.Context) {
	var cmd services.CreateProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.products.Create(c.Request.Context(), cmd)
	if err != nil {
		failFromError(c, err)
		return
	}

	loc := path.Join(path.Dir(c.Request.URL.Path),
		"supermarkets", strconv.Itoa(p.SupermarketID),
		"products", strconv.Itoa(p.ID))
	created(c, loc, p)
}

// UpdateProduct godoc
// @ID          updateProduct
// @Summary     Update a stored product
// @Tags        Products
// @Accept      json
//
// @Param       supermarketId  path  int  true  "Supermarket ID"  example(1)
// @Param       id             path  int  true  "Product ID"      example(123456)
// @Param       body           body  services.UpdateProductCommand  true  "Name and prices"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse  "Product not found"
// @Router      /supermarkets/{supermarketId}/products/{id} [put]
func (h *Handlers) UpdateProduct(c *gin.Context) {
	supermarketID, id, valid := productKeyParams(c)
	if !valid {
		return
	}

	var cmd services.UpdateProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cmd.SupermarketID, cmd.ID = supermarketID, id

	if err := h.products.Update(c.Request.Context(), cmd); err != nil {
		failFromError(c, err)
		return
	}
	noContent(c)
}

// DeleteProduct godoc
// @ID          deleteProduct
// @Summary     Delete a stored product
// @Description Unlinks the product from every ingredient, then removes it. Deleting a missing product also returns 204.
// @Tags        Products
//
// @Param       supermarketId  path  int  true  "Supermarket ID"  example(1)
// @Param       id             path  int  true  "Product ID"      example(123456)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /supermarkets/{supermarketId}/products/{id} [delete]
func (h *Handlers) DeleteProduct(c *gin.Context) {
	supermarketID, id, valid := productKeyParams(c)
	if !valid {
		return
	}

	if err := h.products.Delete(c.Request.Context(), supermarketID, id); err != nil {
		failFromError(c, err)
		return
	}
	noContent(c)
}
