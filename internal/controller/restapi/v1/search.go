package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ichbintonywu/transaction-processor/internal/controller/restapi/v1/response"
	"github.com/ichbintonywu/transaction-processor/internal/dto"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

// @Summary  	Semantic transaction search
// @Description Searches transactions by similarity to a free-text query
// @Tags 		search
// @Produce 	json
// @Param 		q 	  query string true  "Query text (min 2 characters)"
// @Param 		limit query int    false "Max results (default 10)"
// @Success 	200 {object} response.Search
// @Failure 	400 {object} response.Error "Query too short"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/search [get]
func (r *V1) searchTransactions(ctx *fiber.Ctx) error {
	q := strings.TrimSpace(ctx.Query("q"))
	if len(q) < 2 {
		return errorResponse(ctx, http.StatusBadRequest, "query must be at least 2 characters")
	}

	limit := clampLimit(ctx.QueryInt("limit", _defaultLimit))

	results, err := r.query.Search(ctx.UserContext(), q, limit)
	if err != nil {
		// A missing index is "not ready", which is an answer for the caller,
		// not a fault.
		if errors.Is(err, errs.ErrIndexNotReady) {
			return ctx.JSON(response.Search{
				Query:   q,
				Results: []dto.SearchResult{},
				Ready:   false,
			})
		}
		r.logger.Error(err, "restapi - v1 - searchTransactions")

		return errorResponse(ctx, http.StatusInternalServerError, "search problems")
	}

	if results == nil {
		results = []dto.SearchResult{}
	}

	return ctx.JSON(response.Search{
		Query:   q,
		Results: results,
		Count:   len(results),
		Ready:   true,
	})
}
