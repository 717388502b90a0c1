package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chamados-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Board     *handlers.BoardHandler
	Stream    *handlers.StreamHandler
	StaticDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Get("/open", cfg.Tickets.ListOpen)
	tickets.Post("/open", cfg.Tickets.SubmitOpen)
	tickets.Delete("/open", cfg.Tickets.ClearOpen)
	tickets.Delete("/open/:id", cfg.Tickets.RemoveOpen)
	tickets.Post("/open/:id/archive", cfg.Tickets.Archive)
	tickets.Get("/archived", cfg.Tickets.ListArchived)
	tickets.Post("/archived", cfg.Tickets.SubmitArchived)
	tickets.Delete("/archived", cfg.Tickets.ClearArchived)

	app.Get("/chamados", cfg.Board.ListEntries)
	app.Post("/chamados", cfg.Board.CreateEntry)
	app.Get("/chamados/:id", cfg.Board.GetEntry)

	app.Use("/ws/tickets", cfg.Stream.Upgrade)
	app.Get("/ws/tickets", cfg.Stream.Serve())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
}
