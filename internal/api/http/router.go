package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/digiticket/helpdesk-service/internal/api/http/handlers"
	"github.com/digiticket/helpdesk-service/internal/auth"
	"github.com/digiticket/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Notifications  *handlers.NotificationsHandler
	Admin          *handlers.AdminHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Everything under /api requires a
// valid token; /api/users, /api/admin and /api/stats additionally
// require the ADMIN role. Fine-grained decisions stay in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.ListAll)
	tickets.Get("/client/:clientId", cfg.Tickets.ListByClient)
	tickets.Get("/agent/:agentId", cfg.Tickets.ListByAgent)
	tickets.Get("/:id", cfg.Tickets.GetByID)
	tickets.Put("/:id/assign/:agentId", cfg.Tickets.Assign)
	tickets.Put("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/escalate", cfg.Tickets.Escalate)
	tickets.Put("/:id/close", cfg.Tickets.Close)

	notifications := api.Group("/notifications")
	notifications.Get("", cfg.Notifications.ListMine)
	notifications.Get("/unread", cfg.Notifications.ListUnread)
	notifications.Get("/unread/count", cfg.Notifications.UnreadCount)
	notifications.Patch("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Patch("/:id/read", cfg.Notifications.MarkRead)

	users := api.Group("/users", auth.RequireRole(domain.RoleAdmin))
	users.Post("", cfg.Users.Create)
	users.Get("", cfg.Users.ListAll)
	users.Get("/active", cfg.Users.ListActive)
	users.Get("/email/:email", cfg.Users.GetByEmail)
	users.Get("/:id", cfg.Users.GetByID)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Patch("/:id/activate", cfg.Users.Activate)
	users.Patch("/:id/deactivate", cfg.Users.Deactivate)
	users.Put("/:id/role", cfg.Users.SetRole)

	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Put("/tickets/:ticketId/assign/:agentId", cfg.Admin.ForceAssign)
	admin.Get("/logs", cfg.Admin.ListLogs)
	admin.Get("/logs/my", cfg.Admin.ListMyLogs)

	stats := api.Group("/stats", auth.RequireRole(domain.RoleAdmin))
	stats.Get("/tickets/status", cfg.Stats.ByStatus)
	stats.Get("/tickets/agents", cfg.Stats.PerAgent)
	stats.Get("/tickets/clients", cfg.Stats.PerClient)
}
