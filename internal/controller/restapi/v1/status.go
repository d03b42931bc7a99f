package v1

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ichbintonywu/transaction-processor/internal/dto"
	"github.com/ichbintonywu/transaction-processor/internal/entity"
)

const _tailBlock = 100 * time.Millisecond

// @Summary  	View readiness
// @Description Reports which derived views hold data yet
// @Tags 		status
// @Produce 	json
// @Success 	200 {object} dto.Status
// @Router 		/v1/status [get]
func (r *V1) getStatus(ctx *fiber.Ctx) error {
	status, err := r.query.Status(ctx.UserContext())
	if err != nil {
		r.logger.Error(err, "restapi - v1 - getStatus")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.JSON(status)
}

// @Summary  	Latest stream entry
// @Description Returns the first log entry appended after the given ID
// @Tags 		status
// @Produce 	json
// @Param 		after query string false "Entry ID to read after (default 0)"
// @Success 	200 {object} dto.StreamEntry
// @Router 		/v1/stream/latest [get]
func (r *V1) getLatestStreamEntry(ctx *fiber.Ctx) error {
	after := ctx.Query("after", "0")

	entry, err := r.tail.Tail(ctx.UserContext(), after, _tailBlock)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - getLatestStreamEntry")

		return ctx.JSON(dto.StreamEntry{StreamID: after})
	}
	if entry == nil {
		return ctx.JSON(dto.StreamEntry{StreamID: after})
	}

	tx, err := entity.ParseTransaction(entry.Values)
	if err != nil {
		r.logger.Warn("restapi - v1 - getLatestStreamEntry - entity.ParseTransaction: %v", err)

		return ctx.JSON(dto.StreamEntry{StreamID: entry.ID})
	}

	return ctx.JSON(dto.StreamEntry{
		StreamID:    entry.ID,
		Transaction: tx,
	})
}
