package models

import "time"

// Account is the current user's profile and credit balance as reported by the
// remote service. Credits are accounted server-side; this is display data.
type Account struct {
	UserID        string     `json:"user_id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Plan          string     `json:"plan"`
	Credits       int        `json:"credits"`
	CreditsExpiry *time.Time `json:"credits_expiry,omitempty"`
}

// APIKey describes one programmatic-access key. The secret is only ever
// returned in full by the generate call; listings carry the masked form.
type APIKey struct {
	KeyID     string     `json:"key_id"`
	MaskedKey string     `json:"masked_key"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
