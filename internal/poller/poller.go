// Package poller implements the polling controller behind the dashboard: one
// authoritative in-memory snapshot of bucketized checks, refreshed on a fixed
// interval and on demand. Overlapping fetches are resolved by completion
// order with a generation guard so a stale response never overwrites a newer
// one.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/draftguard/draftguard-agent/internal/checks"
	"github.com/draftguard/draftguard-agent/internal/models"
	"github.com/draftguard/draftguard-agent/internal/observability"
	"github.com/draftguard/draftguard-agent/internal/remote"
	"github.com/draftguard/draftguard-agent/internal/session"
)

// ListSource supplies the raw check list. In production this is the remote
// client; tests substitute stubs.
type ListSource interface {
	ListChecks(ctx context.Context) ([]models.Check, error)
}

// Snapshot is the bucketized state of the user's checks at one point in
// time. On a failed refresh the previous buckets are kept and Stale is set;
// the last-known-good data stays visible alongside the error.
type Snapshot struct {
	Buckets          checks.Buckets `json:"buckets"`
	FetchedAt        time.Time      `json:"fetched_at"`
	Generation       uint64         `json:"generation"`
	Manual           bool           `json:"manual"`
	Stale            bool           `json:"stale"`
	NotAuthenticated bool           `json:"not_authenticated"`
	LastError        string         `json:"last_error,omitempty"`
	ErrorKind        string         `json:"error_kind,omitempty"`
}

// Poller owns the fetch-and-bucketize cycle for one view.
type Poller struct {
	source   ListSource
	cache    *redis.Client
	cacheKey string
	cacheTTL time.Duration
	interval time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time

	generation atomic.Uint64

	mu       sync.Mutex
	snapshot Snapshot
	applied  uint64
	loaded   bool
	stopped  bool
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	subs     map[int]chan Snapshot
	subSeq   int
}

// New constructs a poller for the named view. cache may be nil; snapshots are
// then kept in memory only.
func New(name string, source ListSource, cache *redis.Client, cacheTTL, interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{
		source:   source,
		cache:    cache,
		cacheKey: "snapshot:checks:" + name,
		cacheTTL: cacheTTL,
		interval: interval,
		logger:   logger.With().Str("component", "poller").Str("view", name).Logger(),
		tracer:   otel.Tracer("github.com/draftguard/draftguard-agent/internal/poller"),
		now:      time.Now,
		subs:     map[int]chan Snapshot{},
	}
}

// Start performs an immediate fetch, then schedules recurring fetches at the
// configured interval until Stop is called or ctx is cancelled. A cached
// last-known-good snapshot, if one exists, is served (flagged stale) until
// the first live fetch lands.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return
	}
	p.running = true
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	p.loadCached(runCtx)

	go p.run(runCtx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.Refresh(ctx, false)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx, false)
		}
	}
}

// Refresh performs one fetch-and-bucketize cycle outside the timer. Manual
// refreshes are flagged on the resulting snapshot so the caller can show a
// loading indicator distinct from background ticks. There is no retry or
// backoff on failure; the next scheduled tick is the retry.
func (p *Poller) Refresh(ctx context.Context, manual bool) {
	generation := p.generation.Add(1)
	trigger := "scheduled"
	if manual {
		trigger = "manual"
	}

	ctx, span := p.tracer.Start(ctx, "poller.refresh",
		trace.WithAttributes(
			attribute.Int64("poll.generation", int64(generation)),
			attribute.String("poll.trigger", trigger),
		))
	defer span.End()

	started := p.now()
	list, err := p.source.ListChecks(ctx)
	observability.PollLatency().WithLabelValues(trigger).Observe(p.now().Sub(started).Seconds())

	outcome := p.apply(ctx, generation, list, err, manual)
	observability.PollCycles().WithLabelValues(trigger, outcome).Inc()
}

// apply installs a completed fetch, unless the poller has been stopped or a
// newer generation already landed. Last-completed-wins by generation, never
// by start order.
func (p *Poller) apply(ctx context.Context, generation uint64, list []models.Check, fetchErr error, manual bool) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return "discarded_stopped"
	}

	if generation < p.applied {
		observability.StaleDrops().Inc()
		p.logger.Debug().Uint64("generation", generation).Uint64("applied", p.applied).Msg("stale response dropped")
		return "stale_dropped"
	}
	p.applied = generation

	if fetchErr != nil {
		p.snapshot.Generation = generation
		p.snapshot.Manual = manual
		p.snapshot.Stale = p.loaded
		p.snapshot.NotAuthenticated = isAuthFailure(fetchErr)
		p.snapshot.LastError = fetchErr.Error()
		p.snapshot.ErrorKind = errorKind(fetchErr)
		p.logger.Warn().Err(fetchErr).Uint64("generation", generation).Msg("refresh failed, keeping last known state")
		p.notifyLocked()
		if p.snapshot.NotAuthenticated {
			return "not_authenticated"
		}
		return "error"
	}

	p.snapshot = Snapshot{
		Buckets:    checks.Bucketize(list),
		FetchedAt:  p.now().UTC(),
		Generation: generation,
		Manual:     manual,
	}
	p.loaded = true

	p.storeCached(ctx, p.snapshot)
	p.notifyLocked()
	return "applied"
}

// Snapshot returns the latest applied snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Subscribe registers for applied snapshots. The returned cancel function
// must be called when the consumer goes away. Sends never block: a slow
// consumer misses intermediate snapshots rather than stalling the poller.
func (p *Poller) Subscribe() (<-chan Snapshot, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subSeq++
	id := p.subSeq
	ch := make(chan Snapshot, 8)
	p.subs[id] = ch

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if existing, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(existing)
		}
	}
}

// Stop cancels the interval and marks the poller defunct. In-flight fetches
// may still resolve but their results are discarded; no subscriber sees a
// snapshot applied after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (p *Poller) notifyLocked() {
	for _, ch := range p.subs {
		select {
		case ch <- p.snapshot:
		default:
		}
	}
}

// loadCached seeds the snapshot from redis so a restart shows the last known
// state immediately, flagged stale until a live fetch replaces it.
func (p *Poller) loadCached(ctx context.Context) {
	if p.cache == nil {
		return
	}

	cached, err := p.cache.Get(ctx, p.cacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn().Err(err).Msg("failed to read snapshot cache")
		}
		return
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(cached), &snapshot); err != nil {
		p.logger.Warn().Err(err).Msg("discarding undecodable cached snapshot")
		return
	}

	snapshot.Stale = true
	snapshot.Generation = 0

	p.mu.Lock()
	if !p.loaded && p.applied == 0 {
		p.snapshot = snapshot
		p.loaded = true
	}
	p.mu.Unlock()
}

func (p *Poller) storeCached(ctx context.Context, snapshot Snapshot) {
	if p.cache == nil {
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, p.cacheKey, payload, p.cacheTTL).Err(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to store snapshot cache")
	}
}

func isAuthFailure(err error) bool {
	if errors.Is(err, session.ErrNoToken) || errors.Is(err, session.ErrTokenExpired) {
		return true
	}
	return remote.KindOf(err) == remote.KindAuth
}

func errorKind(err error) string {
	if errors.Is(err, session.ErrNoToken) {
		return "not_authenticated"
	}
	if errors.Is(err, session.ErrTokenExpired) {
		return "session_expired"
	}
	return string(remote.KindOf(err))
}
