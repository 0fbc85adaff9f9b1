// Supermarket HTTP handlers.
//
//   - GET /supermarkets                                  (seeded retailers)
//   - GET /supermarkets/{supermarketId}/search?term=     (one retailer)
//   - GET /supermarkets/search?term=&ids=1,2             (several, or all)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
	"github.com/JaidenRM/recipe-shopper-api/internal/search"
	"github.com/JaidenRM/recipe-shopper-api/internal/utils"
)

// ListSupermarkets godoc
// @ID          listSupermarkets
// @Summary     List supermarkets
// @Tags        Supermarkets
// @Produce     json
//
// @Success     200  {object}  handlers.ListResponse[[]domain.Supermarket]
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /supermarkets [get]
func (h *Handlers) ListSupermarkets(c *gin.Context) {
	markets, err := h.markets.Supermarkets(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}
	if markets == nil {
		markets = []domain.Supermarket{}
	}
	ok(c, http.StatusOK, ListResponse[[]domain.Supermarket]{Results: markets})
}

// SearchSupermarket godoc
// @ID          searchSupermarket
// @Summary     Search one supermarket
// @Description Runs a live catalogue search at a single retailer. Results are ordered by relevance to the term.
// @Tags        Supermarkets
// @Produce     json
//
// @Param       supermarketId  path   int     true  "Supermarket ID"  example(1)
// @Param       term           query  string  true  "Search phrase"   example(plain flour)
//
// @Success     200  {object}  handlers.ListResponse[[]search.Product]
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown supermarket or blank term"
// @Failure     502  {object}  handlers.ErrorResponse  "Retailer error"
// @Failure     504  {object}  handlers.ErrorResponse  "Retailer timeout"
// @Router      /supermarkets/{supermarketId}/search [get]
func (h *Handlers) SearchSupermarket(c *gin.Context) {
	id, valid := utils.ParseID[int](c.Param("supermarketId"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "supermarket id must be a positive integer")
		return
	}

	products, err := h.markets.Search(c.Request.Context(), domain.SupermarketType(id), strings.TrimSpace(c.Query("term")))
	if err != nil {
		failFromSearchError(c, err)
		return
	}
	ok(c, http.StatusOK, ListResponse[[]search.Product]{Results: products})
}

// SearchSupermarkets godoc
// @ID          searchSupermarkets
// @Summary     Search several supermarkets
// @Description Searches the listed retailers concurrently, or every registered retailer when ids is omitted. Results are keyed by supermarket id; any failing retailer fails the request.
// @Tags        Supermarkets
// @Produce     json
//
// @Param       term  query  string  true   "Search phrase"                  example(plain flour)
// @Param       ids   query  string  false  "Comma-separated supermarket ids"  example(1)
//
// @Success     200  {object}  handlers.ListResponse[map[string][]search.Product]
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown supermarket or blank term"
// @Failure     502  {object}  handlers.ErrorResponse  "Retailer error"
// @Failure     504  {object}  handlers.ErrorResponse  "Retailer timeout"
// @Router      /supermarkets/search [get]
func (h *Handlers) SearchSupermarkets(c *gin.Context) {
	ids, err := utils.ParseIDList[int](c.QueryArray("ids"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	term := strings.TrimSpace(c.Query("term"))

	var results map[domain.SupermarketType][]search.Product
	if len(ids) == 0 {
		results, err = h.markets.SearchAll(c.Request.Context(), term)
	} else {
		markets := make([]domain.SupermarketType, 0, len(ids))
		for _, id := range ids {
			markets = append(markets, domain.SupermarketType(id))
		}
		results, err = h.markets.SearchSome(c.Request.Context(), markets, term)
	}
	if err != nil {
		failFromSearchError(c, err)
		return
	}
	ok(c, http.StatusOK, ListResponse[map[domain.SupermarketType][]search.Product]{Results: results})
}
