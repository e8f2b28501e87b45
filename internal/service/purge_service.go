package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/remote"
)

// ErrPurgeNotConfirmed indicates Execute was called without a live
// confirmation ticket. Bulk deletion is destructive and unscoped, so it is a
// hard no-op unless the confirmation step completed first.
var ErrPurgeNotConfirmed = errors.New("purge has not been confirmed")

// ErrPurgeInProgress indicates a purge is already submitting; re-entrant
// invocation is rejected rather than queued.
var ErrPurgeInProgress = errors.New("purge already in progress")

// PurgeState names the phases of one purge invocation.
type PurgeState string

const (
	// PurgeIdle means no purge is underway.
	PurgeIdle PurgeState = "idle"
	// PurgeConfirming means a ticket has been issued and not yet used.
	PurgeConfirming PurgeState = "confirming"
	// PurgeSubmitting means the delete request is in flight.
	PurgeSubmitting PurgeState = "submitting"
)

// BulkDeleter is the remote capability that destroys every check.
type BulkDeleter interface {
	PurgeAll(ctx context.Context) (remote.PurgeResult, error)
}

// PurgeService runs the two-step bulk delete:
// idle -> confirming -> submitting -> {succeeded | partially-failed | failed} -> idle.
// The terminal outcome is carried on the response; the service itself returns
// to idle once Execute finishes.
type PurgeService interface {
	Confirm() dto.PurgeConfirmResponse
	Execute(ctx context.Context, ticket string) (dto.PurgeResponse, error)
	State() PurgeState
}

type purgeService struct {
	remote    BulkDeleter
	poller    Refresher
	ticketTTL time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	mu           sync.Mutex
	state        PurgeState
	ticket       string
	ticketExpiry time.Time
}

// NewPurgeService constructs a PurgeService. ticketTTL bounds how long a
// confirmation stays armed before it lapses back to idle.
func NewPurgeService(remote BulkDeleter, poller Refresher, ticketTTL time.Duration, logger zerolog.Logger) PurgeService {
	return &purgeService{
		remote:    remote,
		poller:    poller,
		ticketTTL: ticketTTL,
		logger:    logger.With().Str("component", "purge_service").Logger(),
		now:       time.Now,
		state:     PurgeIdle,
	}
}

// Confirm arms a purge and returns a single-use ticket. Confirming again
// replaces any previously issued ticket.
func (s *purgeService) Confirm() dto.PurgeConfirmResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = PurgeConfirming
	s.ticket = uuid.NewString()
	s.ticketExpiry = s.now().Add(s.ticketTTL)

	return dto.PurgeConfirmResponse{
		Ticket:    s.ticket,
		ExpiresAt: s.ticketExpiry,
	}
}

// Execute performs the bulk delete. Without a matching, unexpired ticket it
// is a no-op error. While submitting, further calls are rejected.
func (s *purgeService) Execute(ctx context.Context, ticket string) (dto.PurgeResponse, error) {
	if err := s.arm(ticket); err != nil {
		return dto.PurgeResponse{}, err
	}

	result, err := s.remote.PurgeAll(ctx)

	s.mu.Lock()
	s.state = PurgeIdle
	s.ticket = ""
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("purge failed")
		return dto.PurgeResponse{State: "failed", Message: err.Error()}, err
	}

	// Force a refresh so deleted rows do not linger in the snapshot.
	s.poller.Refresh(ctx, true)

	if len(result.Failed) > 0 {
		s.logger.Warn().Int("deleted", result.Deleted).Int("failed", len(result.Failed)).Msg("purge partially failed")
		return dto.PurgeResponse{
			State:   "partially-failed",
			Deleted: result.Deleted,
			Failed:  result.Failed,
		}, nil
	}

	s.logger.Info().Int("deleted", result.Deleted).Msg("purge succeeded")
	return dto.PurgeResponse{State: "succeeded", Deleted: result.Deleted}, nil
}

// State reports the current phase.
func (s *purgeService) State() PurgeState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == PurgeConfirming && s.now().After(s.ticketExpiry) {
		s.state = PurgeIdle
		s.ticket = ""
	}

	return s.state
}

// arm transitions confirming -> submitting if the ticket is live.
func (s *purgeService) arm(ticket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == PurgeSubmitting {
		return ErrPurgeInProgress
	}
	if s.state != PurgeConfirming || ticket == "" || ticket != s.ticket {
		return ErrPurgeNotConfirmed
	}
	if s.now().After(s.ticketExpiry) {
		s.state = PurgeIdle
		s.ticket = ""
		return ErrPurgeNotConfirmed
	}

	s.state = PurgeSubmitting
	return nil
}
