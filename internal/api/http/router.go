package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/technoghar/repair-service/internal/api/http/handlers"
	"github.com/technoghar/repair-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Repairs        *handlers.RepairsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAny(), cfg.Auth.Logout)

	// guest endpoints
	app.Get("/track/:ticketId", cfg.Repairs.TrackTicket)
	app.Post("/bookings", cfg.Repairs.SubmitBooking)

	// customer endpoints
	customer := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireCustomer())
	customer.Get("/profile", cfg.Repairs.Profile)
	customer.Post("/repairs", cfg.Repairs.SubmitRequest)

	// admin endpoints
	app.Post("/admin/login", cfg.Auth.AdminLogin)
	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/repairs", cfg.Admin.ListRepairs)
	admin.Patch("/repairs/:email/status", cfg.Admin.UpdateStatus)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/stats", cfg.Admin.GetStats)
}
