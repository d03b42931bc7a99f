package v1

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/ichbintonywu/transaction-processor/internal/controller/restapi/v1/response"
	"github.com/ichbintonywu/transaction-processor/internal/dto"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

// @Summary  	Top spending categories
// @Description Returns categories ranked by total spending, descending
// @Tags 		categories
// @Produce 	json
// @Param 		limit query int false "Max categories (default 10)"
// @Success 	200 {object} response.TopCategories
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/categories/top [get]
func (r *V1) getTopCategories(ctx *fiber.Ctx) error {
	limit := clampLimit(ctx.QueryInt("limit", _defaultLimit))

	totals, err := r.query.TopCategories(ctx.UserContext(), limit)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - getTopCategories")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	categories := make([]dto.CategoryTotal, 0, len(totals))
	for _, t := range totals {
		categories = append(categories, dto.CategoryTotal{
			Category: string(t.Category),
			Total:    t.Total,
		})
	}

	return ctx.JSON(response.TopCategories{
		Categories: categories,
		Count:      len(categories),
	})
}

// @Summary  	Top merchants in category
// @Description Returns merchants ranked by total spending within a category
// @Tags 		categories
// @Produce 	json
// @Param 		category path string true "Spending category"
// @Param 		limit query int false "Max merchants (default 10)"
// @Success 	200 {object} response.TopMerchants
// @Failure 	400 {object} response.Error "Unknown category"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/categories/{category}/merchants [get]
func (r *V1) getTopMerchants(ctx *fiber.Ctx) error {
	category := ctx.Params("category")
	limit := clampLimit(ctx.QueryInt("limit", _defaultLimit))

	totals, err := r.query.TopMerchants(ctx.UserContext(), category, limit)
	if err != nil {
		if errors.Is(err, errs.ErrUnknownCategory) {
			return errorResponse(ctx, http.StatusBadRequest, "unknown category")
		}
		r.logger.Error(err, "restapi - v1 - getTopMerchants")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	merchants := make([]dto.MerchantTotal, 0, len(totals))
	for _, t := range totals {
		merchants = append(merchants, dto.MerchantTotal{
			Merchant: t.Merchant,
			Total:    t.Total,
		})
	}

	return ctx.JSON(response.TopMerchants{
		Merchants: merchants,
		Count:     len(merchants),
		Category:  category,
	})
}
