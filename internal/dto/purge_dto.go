package dto

import "time"

// PurgeConfirmResponse carries the single-use ticket that arms a purge.
type PurgeConfirmResponse struct {
	Ticket    string    `json:"ticket"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PurgeRequest executes a previously confirmed purge.
type PurgeRequest struct {
	Ticket string `json:"ticket" validate:"required,uuid4"`
}

// PurgeResponse reports the outcome of a bulk delete. State is one of
// succeeded, partially-failed or failed; Failed lists the check ids the
// server could not delete.
type PurgeResponse struct {
	State   string   `json:"state"`
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed,omitempty"`
	Message string   `json:"message,omitempty"`
}
