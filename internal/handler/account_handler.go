package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/service"
	"github.com/draftguard/draftguard-agent/internal/utils"
)

// AccountHandler serves the remote profile and credit balance.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler builds an account handler instance.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("component", "account_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AccountHandler) Register(router fiber.Router) {
	router.Get("/account", h.account)
}

func (h *AccountHandler) account(c *fiber.Ctx) error {
	account, err := h.service.Account(c.Context())
	if err != nil {
		return sendRemoteError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "account retrieved", account)
}
