package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/headstoneworld/orders-api/internal/config"
	"github.com/headstoneworld/orders-api/internal/handler"
	"github.com/headstoneworld/orders-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	InvoiceHandler   *handler.InvoiceHandler
	StageHandler     *handler.StageHandler
	WorkOrderHandler *handler.WorkOrderHandler
	ReportHandler    *handler.ReportHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Login routes
// stay open; the workflow routes sit behind the JWT guard.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(app.Group("/api/v1/auth"))
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	orders := app.Group("/api/v1/orders", jwtMiddleware)
	if deps.InvoiceHandler != nil {
		deps.InvoiceHandler.Register(orders)
	}
	if deps.StageHandler != nil {
		deps.StageHandler.Register(orders)
	}
	if deps.WorkOrderHandler != nil {
		deps.WorkOrderHandler.Register(orders)
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(orders)
	}
}
