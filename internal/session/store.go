package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// ErrNoToken indicates no bearer token is stored; callers must treat this as
// "not authenticated" and skip remote calls entirely rather than erroring.
var ErrNoToken = errors.New("no session token")

// ErrTokenExpired indicates the stored token's exp claim is in the past.
var ErrTokenExpired = errors.New("session token expired")

// Store holds the bearer token for the current session. The token file is the
// persistent client-side storage; the token is read-only shared state for
// every component on the page, mutated only by SetToken and Logout.
type Store struct {
	mu     sync.RWMutex
	path   string
	token  string
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore loads the token file if present and returns the store. A missing
// file is not an error; the store simply starts unauthenticated.
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With().Str("component", "session_store").Logger(),
		now:    time.Now,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	s.token = strings.TrimSpace(string(raw))
	return s, nil
}

// Token returns the stored bearer token, or ErrNoToken / ErrTokenExpired.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return "", ErrNoToken
	}

	if expired, err := s.expired(token); err == nil && expired {
		return "", ErrTokenExpired
	}

	return token, nil
}

// Authenticated reports whether a usable token is present.
func (s *Store) Authenticated() bool {
	_, err := s.Token()
	return err == nil
}

// SetToken stores a new bearer token in memory and on disk.
func (s *Store) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return err
	}

	s.token = token
	return nil
}

// Logout clears the token atomically: memory and file together. Every poller
// sees ErrNoToken on its next tick and must stop fetching.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	s.logger.Info().Msg("session cleared")
	return nil
}

// expired inspects the exp claim without verifying the signature. The server
// is the authority on token validity; this only lets the client fail fast
// instead of burning a request on a guaranteed 401. Tokens that do not parse
// as JWTs are passed through for the server to judge.
func (s *Store) expired(token string) (bool, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, err
	}

	return exp.Time.Before(s.now()), nil
}
