package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Kind classifies a remote API failure so callers can react per taxonomy:
// preserve state on transport errors, re-authenticate on auth errors, show
// the server's own message on validation and plan failures.
type Kind string

const (
	// KindTransport covers network failures and 5xx responses.
	KindTransport Kind = "transport"
	// KindAuth covers 401 responses: the session has expired.
	KindAuth Kind = "auth"
	// KindForbidden covers 403 responses: plan or key restrictions.
	KindForbidden Kind = "forbidden"
	// KindValidation covers 400 responses.
	KindValidation Kind = "validation"
	// KindMalformed covers 2xx responses whose body fails schema validation.
	KindMalformed Kind = "malformed"
)

// APIError is a classified failure from the remote service. Message carries
// the server-supplied text where one exists; it has been stripped of markup
// because downstream surfaces render it verbatim.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote: %s (%s)", e.Message, e.Kind)
	}
	return fmt.Sprintf("remote: %s failure (status %d)", e.Kind, e.StatusCode)
}

// KindOf returns the error's Kind, or KindTransport for anything that is not
// an APIError (plain network errors classify as transport failures).
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}

var messagePolicy = bluemonday.StrictPolicy()

// sanitizeMessage strips markup from a server-supplied message. The text is
// displayed verbatim to the user, so it must not smuggle HTML through.
func sanitizeMessage(message string) string {
	return strings.TrimSpace(messagePolicy.Sanitize(message))
}

func newAPIError(kind Kind, statusCode int, message string) *APIError {
	return &APIError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    sanitizeMessage(message),
	}
}
