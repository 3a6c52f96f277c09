package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrisupport/complaint-service/internal/api/http/handlers"
	"github.com/agrisupport/complaint-service/internal/auth"
	"github.com/agrisupport/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/password/change", cfg.Staff.ChangePassword)

	tickets := protected.Group("/tickets", auth.RequireRole(domain.StaffRoleExecutive, domain.StaffRoleAdmin, domain.StaffRoleMasterAdmin))
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Post("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/assign", auth.RequireRole(domain.StaffRoleAdmin, domain.StaffRoleMasterAdmin), cfg.Tickets.Assign)
	tickets.Post("/:id/calls", cfg.Tickets.RecordCallLog)
	tickets.Get("/:id/calls", cfg.Tickets.ListCallLogs)

	reports := protected.Group("/reports", auth.RequireRole(domain.StaffRoleExecutive, domain.StaffRoleAdmin, domain.StaffRoleMasterAdmin))
	reports.Get("/stats", cfg.Stats.Stats)
	reports.Get("/sla-compliance", cfg.Stats.SlaCompliance)
	reports.Get("/mttr", cfg.Stats.MTTR)
}
