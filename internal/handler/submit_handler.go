package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/service"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

// SubmitHandler accepts document uploads and forwards them for checking.
type SubmitHandler struct {
	service service.SubmitService
	logger  zerolog.Logger
}

// NewSubmitHandler builds a submit handler instance.
func NewSubmitHandler(service service.SubmitService, logger zerolog.Logger) *SubmitHandler {
	return &SubmitHandler{
		service: service,
		logger:  logger.With().Str("component", "submit_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmitHandler) Register(router fiber.Router) {
	router.Post("/checks", h.submit)
}

func (h *SubmitHandler) submit(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	response, err := h.service.Submit(c.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrUploadTypeNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		default:
			return sendRemoteError(c, requestLogger(h.logger, c), err)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "document submitted", response)
}
