package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ichbintonywu/transaction-processor/internal/usecase"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

func NewTransactionRoutes(apiV1Group fiber.Router, q usecase.QueryUseCase, tail TailReader, l logger.Interface) {
	r := &V1{query: q, tail: tail, logger: l}

	{
		apiV1Group.Get("/status", r.getStatus)
		apiV1Group.Get("/transactions/recent", r.getRecentTransactions)
		apiV1Group.Get("/transactions/:id", r.getTransaction)
		apiV1Group.Get("/categories/top", r.getTopCategories)
		apiV1Group.Get("/categories/:category/merchants", r.getTopMerchants)
		apiV1Group.Get("/spending/range", r.getSpendingRange)
		apiV1Group.Get("/search", r.searchTransactions)
		apiV1Group.Get("/stream/latest", r.getLatestStreamEntry)
	}
}
