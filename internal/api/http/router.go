package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hbrp/insurance-bot/internal/api/http/handlers"
	"github.com/hbrp/insurance-bot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Admin.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/customers", cfg.Admin.ListCustomers)
	api.Get("/customers/:id", cfg.Admin.GetCustomer)
	api.Get("/invoices", cfg.Admin.ListInvoices)
	api.Get("/logs", cfg.Admin.ListLogs)
}
