package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/http/handlers"
	"github.com/spec-kit/project-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Clients        *handlers.ClientsHandler
	Teams          *handlers.TeamsHandler
	Projects       *handlers.ProjectsHandler
	Tasks          *handlers.TasksHandler
	Time           *handlers.TimeHandler
	Notifications  *handlers.NotificationsHandler
	Loans          *handlers.LoansHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	protected.Post("/auth/logout", cfg.Auth.Logout)
	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	clients := protected.Group("/clients")
	clients.Post("", cfg.Clients.Create)
	clients.Get("", cfg.Clients.List)
	clients.Get("/:id", cfg.Clients.Get)
	clients.Put("/:id", cfg.Clients.Update)
	clients.Delete("/:id", cfg.Clients.Delete)
	clients.Get("/:id/permissions", cfg.Clients.ListPermissions)
	clients.Put("/:id/permissions/:userId", cfg.Clients.UpsertPermission)
	clients.Delete("/:id/permissions/:userId", cfg.Clients.RevokePermission)

	clients.Post("/:id/teams", cfg.Teams.Create)
	clients.Get("/:id/teams", cfg.Teams.List)
	clients.Post("/:id/projects", cfg.Projects.Create)
	clients.Get("/:id/projects", cfg.Projects.List)
	clients.Post("/:id/loans", cfg.Loans.Create)
	clients.Get("/:id/loans", cfg.Loans.List)

	teams := protected.Group("/teams")
	teams.Put("/:id", cfg.Teams.Update)
	teams.Delete("/:id", cfg.Teams.Delete)
	teams.Post("/:id/members", cfg.Teams.AddMembers)
	teams.Delete("/:id/members", cfg.Teams.RemoveMembers)

	projects := protected.Group("/projects")
	projects.Get("/:id", cfg.Projects.Get)
	projects.Put("/:id", cfg.Projects.Update)
	projects.Delete("/:id", cfg.Projects.Delete)
	projects.Post("/:id/applications", cfg.Projects.CreateApplication)
	projects.Get("/:id/applications", cfg.Projects.ListApplications)
	projects.Post("/:id/tasks", cfg.Tasks.Create)
	projects.Get("/:id/tasks", cfg.Tasks.List)

	applications := protected.Group("/applications")
	applications.Put("/:id", cfg.Projects.UpdateApplication)
	applications.Delete("/:id", cfg.Projects.DeleteApplication)

	tasks := protected.Group("/tasks")
	tasks.Get("/:id", cfg.Tasks.Get)
	tasks.Put("/:id", cfg.Tasks.Update)
	tasks.Delete("/:id", cfg.Tasks.Delete)
	tasks.Post("/:id/comments", cfg.Tasks.AddComment)
	tasks.Get("/:id/comments", cfg.Tasks.ListComments)
	tasks.Post("/:id/time/start", cfg.Time.StartTimer)
	tasks.Post("/:id/time/stop", cfg.Time.StopTimer)
	tasks.Post("/:id/time", cfg.Time.AddManualEntry)
	tasks.Get("/:id/time", cfg.Time.TaskSummary)

	protected.Delete("/comments/:id", cfg.Tasks.DeleteComment)

	protected.Get("/time/mine", cfg.Time.MyEntries)

	notifications := protected.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	loans := protected.Group("/loans")
	loans.Get("/:id", cfg.Loans.Get)
	loans.Delete("/:id", cfg.Loans.Delete)
	loans.Post("/:id/payments", cfg.Loans.AddPayment)
}
