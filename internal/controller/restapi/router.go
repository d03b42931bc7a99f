package restapi

import (
	"github.com/gofiber/fiber/v2"
	v1 "github.com/ichbintonywu/transaction-processor/internal/controller/restapi/v1"
	"github.com/ichbintonywu/transaction-processor/internal/usecase"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

// @title Transaction Processor
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, q usecase.QueryUseCase, tail v1.TailReader, l logger.Interface) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "healthy"})
	})

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewTransactionRoutes(apiV1Group, q, tail, l)
	}
}
