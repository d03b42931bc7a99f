package v1

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/ichbintonywu/transaction-processor/internal/dto"
)

const _millisPerDay = 24 * 60 * 60 * 1000

// @Summary  	Spending over time
// @Description Returns (timestamp, amount) samples for a window, with the derived total
// @Tags 		spending
// @Produce 	json
// @Param 		start query int false "Window start, unix ms (with end)"
// @Param 		end   query int false "Window end, unix ms (with start)"
// @Param 		days  query int false "Last N days, anchored at the latest sample (overrides start/end)"
// @Success 	200 {object} dto.SpendingRange
// @Failure 	400 {object} response.Error "Missing window parameters"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/spending/range [get]
func (r *V1) getSpendingRange(ctx *fiber.Ctx) error {
	start := int64(ctx.QueryInt("start", -1))
	end := int64(ctx.QueryInt("end", -1))
	days := ctx.QueryInt("days", 0)

	if days > 0 {
		latest, err := r.query.LatestTimestamp(ctx.UserContext())
		if err != nil {
			r.logger.Error(err, "restapi - v1 - getSpendingRange")

			return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
		}
		if latest == 0 {
			return ctx.JSON(&dto.SpendingRange{})
		}

		end = latest
		start = latest - int64(days)*_millisPerDay
	} else if start < 0 || end < 0 {
		return errorResponse(ctx, http.StatusBadRequest, "provide either 'days' or both 'start' and 'end'")
	}

	spendingRange, err := r.query.SpendingRange(ctx.UserContext(), start, end)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - getSpendingRange")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	if spendingRange.Points == nil {
		spendingRange.Points = []dto.SamplePoint{}
	}

	return ctx.JSON(spendingRange)
}
