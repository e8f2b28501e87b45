package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/service"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

// BlobHandler proxies stored-file and report downloads.
type BlobHandler struct {
	service service.BlobService
	logger  zerolog.Logger
}

// NewBlobHandler builds a blob handler instance.
func NewBlobHandler(service service.BlobService, logger zerolog.Logger) *BlobHandler {
	return &BlobHandler{
		service: service,
		logger:  logger.With().Str("component", "blob_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *BlobHandler) Register(router fiber.Router) {
	router.Get("/files/:id", h.file)
	router.Get("/reports/:checkId/:kind", h.report)
}

func (h *BlobHandler) file(c *fiber.Ctx) error {
	blob, err := h.service.File(c.Context(), c.Params("id"))
	if err != nil {
		return sendRemoteError(c, requestLogger(h.logger, c), err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(blob)
}

func (h *BlobHandler) report(c *fiber.Ctx) error {
	blob, err := h.service.Report(c.Context(), c.Params("checkId"), c.Params("kind"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownReportKind) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return sendRemoteError(c, requestLogger(h.logger, c), err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(blob)
}
