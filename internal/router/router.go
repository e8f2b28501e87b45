package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/draftguard/draftguard-agent/internal/config"
	"github.com/draftguard/draftguard-agent/internal/handler"
	"github.com/draftguard/draftguard-agent/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Sessions         handler.SessionChecker
	DashboardHandler *handler.DashboardHandler
	SubmitHandler    *handler.SubmitHandler
	PurgeHandler     *handler.PurgeHandler
	BlobHandler      *handler.BlobHandler
	AccountHandler   *handler.AccountHandler
	APIKeyHandler    *handler.APIKeyHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	if deps.Sessions != nil {
		api.Get("/health", handler.HealthCheck(cfg, deps.Sessions))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api)
	}
	if deps.SubmitHandler != nil {
		deps.SubmitHandler.Register(api)
	}
	if deps.PurgeHandler != nil {
		deps.PurgeHandler.Register(api)
	}
	if deps.BlobHandler != nil {
		deps.BlobHandler.Register(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.Register(api)
	}
	if deps.APIKeyHandler != nil {
		deps.APIKeyHandler.Register(api)
	}

	app.Get("/metrics", observability.MetricsHandler())
}
