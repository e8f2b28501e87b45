package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/middleware"
	"github.com/draftguard/draftguard-agent/internal/remote"
	"github.com/draftguard/draftguard-agent/internal/session"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// sendRemoteError maps a failure from the remote service onto the local API
// per the error taxonomy. Server-supplied messages for validation and plan
// failures are passed through verbatim; the server's text beats a generic
// guess.
func sendRemoteError(c *fiber.Ctx, logger *zerolog.Logger, err error) error {
	if errors.Is(err, session.ErrNoToken) {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	if errors.Is(err, session.ErrTokenExpired) {
		return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	}

	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case remote.KindAuth:
			return utils.SendError(c, fiber.StatusUnauthorized, apiErr.Message)
		case remote.KindForbidden:
			return utils.SendError(c, fiber.StatusForbidden, apiErr.Message)
		case remote.KindValidation:
			return utils.SendError(c, fiber.StatusBadRequest, apiErr.Message)
		case remote.KindMalformed:
			logger.Error().Err(err).Msg("remote response failed schema validation")
			return utils.SendError(c, fiber.StatusBadGateway, "remote service returned an unexpected response")
		default:
			logger.Warn().Err(err).Msg("remote service unavailable")
			return utils.SendError(c, fiber.StatusServiceUnavailable, "remote service unavailable")
		}
	}

	logger.Error().Err(err).Msg("internal error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal error")
}
