package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/service"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

// PurgeHandler exposes the two-step bulk delete.
type PurgeHandler struct {
	service   service.PurgeService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPurgeHandler builds a purge handler instance.
func NewPurgeHandler(service service.PurgeService, validate *validator.Validate, logger zerolog.Logger) *PurgeHandler {
	return &PurgeHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "purge_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PurgeHandler) Register(router fiber.Router) {
	router.Get("/purge", h.state)
	router.Post("/purge/confirm", h.confirm)
	router.Post("/purge", h.execute)
}

func (h *PurgeHandler) state(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "purge state", fiber.Map{"state": string(h.service.State())})
}

func (h *PurgeHandler) confirm(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "purge armed; execute with this ticket to delete every check", h.service.Confirm())
}

func (h *PurgeHandler) execute(c *fiber.Ctx) error {
	var payload dto.PurgeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "a confirmation ticket is required")
	}

	response, err := h.service.Execute(c.Context(), payload.Ticket)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurgeNotConfirmed):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrPurgeInProgress):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			return sendRemoteError(c, requestLogger(h.logger, c), err)
		}
	}

	if response.State == "partially-failed" {
		return utils.SendSuccessWithStatus(c, fiber.StatusMultiStatus, "some checks could not be deleted", response)
	}

	return utils.SendSuccess(c, "all checks deleted", response)
}
