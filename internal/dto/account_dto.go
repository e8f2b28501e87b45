package dto

import "time"

// AccountResponse projects the remote profile and credit balance.
type AccountResponse struct {
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Plan          string     `json:"plan"`
	Credits       int        `json:"credits"`
	CreditsExpiry *time.Time `json:"credits_expiry,omitempty"`
}

// APIKeyResponse describes one programmatic-access key.
type APIKeyResponse struct {
	KeyID     string     `json:"key_id"`
	MaskedKey string     `json:"masked_key"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// APIKeyGeneratedResponse carries the full secret exactly once, at creation.
type APIKeyGeneratedResponse struct {
	Key     APIKeyResponse `json:"key"`
	Secret  string         `json:"secret"`
	Warning string         `json:"warning"`
}

// APIKeyRevokeRequest identifies the key to deactivate.
type APIKeyRevokeRequest struct {
	KeyID string `json:"key_id" validate:"required"`
}
