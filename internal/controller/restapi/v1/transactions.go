package v1

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/ichbintonywu/transaction-processor/internal/controller/restapi/v1/response"
	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

const (
	_defaultLimit = 10
	_maxLimit     = 100
)

// @Summary  	Recent transactions
// @Description Returns the newest transactions with full records
// @Tags 		transactions
// @Produce 	json
// @Param 		limit query int false "Max records (default 10)"
// @Success 	200 {object} response.RecentTransactions
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/transactions/recent [get]
func (r *V1) getRecentTransactions(ctx *fiber.Ctx) error {
	limit := clampLimit(ctx.QueryInt("limit", _defaultLimit))

	txs, err := r.query.RecentTransactions(ctx.UserContext(), limit)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - getRecentTransactions")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	if txs == nil {
		txs = []entity.Transaction{}
	}

	return ctx.JSON(response.RecentTransactions{
		Transactions: txs,
		Count:        len(txs),
	})
}

// @Summary  	Get transaction
// @Description Returns the canonical record for one transaction ID
// @Tags 		transactions
// @Produce 	json
// @Param 		id path string true "Transaction ID"
// @Success 	200 {object} entity.Transaction
// @Failure 	404 {object} response.Error "Transaction not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/transactions/{id} [get]
func (r *V1) getTransaction(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	tx, err := r.query.Transaction(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "transaction not found")
		}
		r.logger.Error(err, "restapi - v1 - getTransaction")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.JSON(tx)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return _defaultLimit
	}
	if limit > _maxLimit {
		return _maxLimit
	}

	return limit
}
