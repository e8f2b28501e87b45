package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/service"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

// DashboardHandler serves the bucketized check snapshot and its live feed.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler builds a dashboard handler instance.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
	router.Post("/dashboard/refresh", h.refresh)
	router.Use("/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/live", websocket.New(h.handleLive))
}

func (h *DashboardHandler) dashboard(c *fiber.Ctx) error {
	response := h.service.Dashboard()
	if response.NotAuthenticated {
		// The snapshot still carries last-known-good buckets; the caller
		// decides whether to redirect or keep rendering them.
		return utils.SendSuccessWithStatus(c, fiber.StatusUnauthorized, "not authenticated", response)
	}

	return utils.SendSuccess(c, "dashboard retrieved", response)
}

func (h *DashboardHandler) refresh(c *fiber.Ctx) error {
	response := h.service.Refresh(c.Context(), true)
	return utils.SendSuccess(c, "dashboard refreshed", response)
}

// handleLive pushes a rendered dashboard to the client for every applied
// snapshot. A closed or failed connection detaches the subscription; writes
// after that are never attempted.
func (h *DashboardHandler) handleLive(conn *websocket.Conn) {
	updates, cancel := h.service.Watch()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(h.service.Dashboard()); err != nil {
		return
	}

	h.logger.Info().Msg("live dashboard connected")
	defer h.logger.Info().Msg("live dashboard disconnected")

	for {
		select {
		case <-closed:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		}
	}
}
