package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pdam-portal/internal/api/http/handlers"
	"github.com/spec-kit/pdam-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Topup          *handlers.TopupHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Get("/session/refresh", cfg.AuthMiddleware.Handle, auth.RequireActiveCustomer(), cfg.Auth.RefreshSession)

	adminGroup := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminGroup.Get("/pending-users", cfg.Admin.PendingUsers)
	adminGroup.Post("/pending-users", cfg.Admin.DecideUser)
	adminGroup.Post("/check-customer-no", cfg.Admin.CheckCustomerNo)
	adminGroup.Get("/pending-payments", cfg.Admin.PendingPayments)
	adminGroup.Post("/pending-payments", cfg.Admin.DecidePayment)
	adminGroup.Get("/stats", cfg.Admin.Stats)
	adminGroup.Get("/monitoring", cfg.Admin.Monitoring)
	adminGroup.Get("/settings", cfg.Admin.Settings)
	adminGroup.Put("/settings", cfg.Admin.UpdateSetting)

	customerGroup := app.Group("/customer", cfg.AuthMiddleware.Handle, auth.RequireActiveCustomer())
	customerGroup.Post("/topup", cfg.Topup.Submit)
	customerGroup.Get("/topup", cfg.Topup.History)
}
