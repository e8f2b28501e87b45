package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/draftguard/draftguard-agent/internal/config"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

// SessionChecker reports whether a usable bearer token is present.
type SessionChecker interface {
	Authenticated() bool
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Service       string    `json:"service"`
	Environment   string    `json:"environment"`
	RemoteBaseURL string    `json:"remote_base_url"`
	Authenticated bool      `json:"authenticated"`
}

// HealthCheck returns a handler that reports agent health information.
func HealthCheck(cfg config.Config, sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:        "ok",
			Timestamp:     time.Now().UTC(),
			Service:       cfg.AppName,
			Environment:   cfg.AppEnv,
			RemoteBaseURL: cfg.RemoteBaseURL,
			Authenticated: sessions.Authenticated(),
		}

		return utils.SendSuccess(c, "agent healthy", payload)
	}
}
