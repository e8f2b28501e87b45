package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/models"
)

// APIKeyStore is the remote key-lifecycle surface.
type APIKeyStore interface {
	ListAPIKeys(ctx context.Context) ([]models.APIKey, error)
	GenerateAPIKey(ctx context.Context) (models.APIKey, string, error)
	RevokeAPIKey(ctx context.Context, keyID string) error
}

// APIKeyService manages programmatic-access keys via the remote service.
// Issuance and revocation persistence live server-side; this is a typed
// pass-through.
type APIKeyService interface {
	List(ctx context.Context) ([]dto.APIKeyResponse, error)
	Generate(ctx context.Context) (dto.APIKeyGeneratedResponse, error)
	Revoke(ctx context.Context, payload dto.APIKeyRevokeRequest) error
}

type apiKeyService struct {
	remote    APIKeyStore
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAPIKeyService constructs an APIKeyService.
func NewAPIKeyService(remote APIKeyStore, validate *validator.Validate, logger zerolog.Logger) APIKeyService {
	return &apiKeyService{
		remote:    remote,
		validator: validate,
		logger:    logger.With().Str("component", "apikey_service").Logger(),
	}
}

func (s *apiKeyService) List(ctx context.Context) ([]dto.APIKeyResponse, error) {
	keys, err := s.remote.ListAPIKeys(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, keyResponse(key))
	}

	return responses, nil
}

func (s *apiKeyService) Generate(ctx context.Context) (dto.APIKeyGeneratedResponse, error) {
	key, secret, err := s.remote.GenerateAPIKey(ctx)
	if err != nil {
		return dto.APIKeyGeneratedResponse{}, err
	}

	s.logger.Info().Str("key_id", key.KeyID).Msg("api key generated")

	return dto.APIKeyGeneratedResponse{
		Key:     keyResponse(key),
		Secret:  secret,
		Warning: "store this secret now; it will not be shown again",
	}, nil
}

func (s *apiKeyService) Revoke(ctx context.Context, payload dto.APIKeyRevokeRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	if err := s.remote.RevokeAPIKey(ctx, payload.KeyID); err != nil {
		return err
	}

	s.logger.Info().Str("key_id", payload.KeyID).Msg("api key revoked")
	return nil
}

func keyResponse(key models.APIKey) dto.APIKeyResponse {
	return dto.APIKeyResponse{
		KeyID:     key.KeyID,
		MaskedKey: key.MaskedKey,
		Active:    key.Active,
		CreatedAt: key.CreatedAt,
		ExpiresAt: key.ExpiresAt,
	}
}
