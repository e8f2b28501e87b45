package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/models"
)

// AccountReader fetches the current user's profile from the remote service.
type AccountReader interface {
	GetAccount(ctx context.Context) (models.Account, error)
}

// AccountService exposes the profile and credit balance.
type AccountService interface {
	Account(ctx context.Context) (dto.AccountResponse, error)
}

type accountService struct {
	remote AccountReader
	logger zerolog.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(remote AccountReader, logger zerolog.Logger) AccountService {
	return &accountService{
		remote: remote,
		logger: logger.With().Str("component", "account_service").Logger(),
	}
}

func (s *accountService) Account(ctx context.Context) (dto.AccountResponse, error) {
	account, err := s.remote.GetAccount(ctx)
	if err != nil {
		return dto.AccountResponse{}, err
	}

	return dto.AccountResponse{
		Email:         account.Email,
		Name:          account.Name,
		Plan:          account.Plan,
		Credits:       account.Credits,
		CreditsExpiry: account.CreditsExpiry,
	}, nil
}
