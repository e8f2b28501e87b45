package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/service"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

// APIKeyHandler manages programmatic-access keys.
type APIKeyHandler struct {
	service service.APIKeyService
	logger  zerolog.Logger
}

// NewAPIKeyHandler builds an API key handler instance.
func NewAPIKeyHandler(service service.APIKeyService, logger zerolog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		service: service,
		logger:  logger.With().Str("component", "apikey_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *APIKeyHandler) Register(router fiber.Router) {
	router.Get("/keys", h.list)
	router.Post("/keys", h.generate)
	router.Post("/keys/revoke", h.revoke)
}

func (h *APIKeyHandler) list(c *fiber.Ctx) error {
	keys, err := h.service.List(c.Context())
	if err != nil {
		return sendRemoteError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "api keys retrieved", keys)
}

func (h *APIKeyHandler) generate(c *fiber.Ctx) error {
	generated, err := h.service.Generate(c.Context())
	if err != nil {
		return sendRemoteError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "api key generated", generated)
}

func (h *APIKeyHandler) revoke(c *fiber.Ctx) error {
	var payload dto.APIKeyRevokeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Revoke(c.Context(), payload); err != nil {
		return sendRemoteError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "api key revoked", nil)
}
