package poller

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/draftguard/draftguard-agent/internal/models"
	"github.com/draftguard/draftguard-agent/internal/remote"
	"github.com/draftguard/draftguard-agent/internal/session"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func namedCheck(id, status string) models.Check {
	return models.Check{CheckID: id, RawStatus: status, Status: models.ParseStatus(status)}
}

type scriptedSource struct {
	mu      sync.Mutex
	results []func() ([]models.Check, error)
	calls   int
}

func (s *scriptedSource) ListChecks(context.Context) ([]models.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.results) == 0 {
		return nil, errors.New("no scripted result")
	}
	next := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return next()
}

// blockingSource parks every fetch until its reply channel is fed, so tests
// can control completion order precisely.
type blockingSource struct {
	mu    sync.Mutex
	calls []chan []models.Check
}

func (s *blockingSource) ListChecks(ctx context.Context) ([]models.Check, error) {
	reply := make(chan []models.Check)
	s.mu.Lock()
	s.calls = append(s.calls, reply)
	s.mu.Unlock()

	select {
	case list := <-reply:
		return list, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *blockingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *blockingSource) release(i int, list []models.Check) {
	s.mu.Lock()
	reply := s.calls[i]
	s.mu.Unlock()
	reply <- list
}

func TestRefreshAppliesBucketizedSnapshot(t *testing.T) {
	source := &scriptedSource{results: []func() ([]models.Check, error){
		func() ([]models.Check, error) {
			return []models.Check{
				namedCheck("a", "pending"),
				namedCheck("b", "completed"),
				namedCheck("c", "foo"),
			}, nil
		},
	}}

	p := New("test", source, nil, time.Minute, time.Hour, testLogger())
	p.Refresh(context.Background(), true)

	snapshot := p.Snapshot()
	require.Equal(t, 3, snapshot.Buckets.Total())
	require.Len(t, snapshot.Buckets.Pending, 1)
	require.Len(t, snapshot.Buckets.Processing, 1)
	require.Len(t, snapshot.Buckets.Completed, 1)
	require.True(t, snapshot.Manual)
	require.False(t, snapshot.Stale)
	require.Empty(t, snapshot.LastError)
}

func TestStaleResponseNeverOverwritesNewerOne(t *testing.T) {
	source := &blockingSource{}
	p := New("test", source, nil, time.Minute, time.Hour, testLogger())

	var wg sync.WaitGroup
	wg.Add(2)

	// Fetch A starts first.
	go func() {
		defer wg.Done()
		p.Refresh(context.Background(), false)
	}()
	require.Eventually(t, func() bool { return source.callCount() == 1 }, time.Second, time.Millisecond)

	// Fetch B starts second.
	go func() {
		defer wg.Done()
		p.Refresh(context.Background(), true)
	}()
	require.Eventually(t, func() bool { return source.callCount() == 2 }, time.Second, time.Millisecond)

	// B resolves first and is applied.
	source.release(1, []models.Check{namedCheck("newer", "pending")})
	require.Eventually(t, func() bool { return p.Snapshot().Buckets.Total() == 1 }, time.Second, time.Millisecond)

	// A resolves last; its generation is older, so it must be discarded.
	source.release(0, []models.Check{namedCheck("older-1", "pending"), namedCheck("older-2", "pending")})
	wg.Wait()

	snapshot := p.Snapshot()
	require.Equal(t, 1, snapshot.Buckets.Total())
	require.Equal(t, "newer", snapshot.Buckets.Pending[0].CheckID)
}

func TestFailedRefreshKeepsLastKnownGood(t *testing.T) {
	source := &scriptedSource{results: []func() ([]models.Check, error){
		func() ([]models.Check, error) { return []models.Check{namedCheck("a", "pending")}, nil },
		func() ([]models.Check, error) { return nil, errors.New("connection refused") },
	}}

	p := New("test", source, nil, time.Minute, time.Hour, testLogger())
	p.Refresh(context.Background(), false)
	p.Refresh(context.Background(), false)

	snapshot := p.Snapshot()
	require.Equal(t, 1, snapshot.Buckets.Total(), "buckets must survive a failed refresh")
	require.True(t, snapshot.Stale)
	require.Contains(t, snapshot.LastError, "connection refused")
	require.Equal(t, string(remote.KindTransport), snapshot.ErrorKind)
}

func TestMissingTokenSignalsNotAuthenticated(t *testing.T) {
	source := &scriptedSource{results: []func() ([]models.Check, error){
		func() ([]models.Check, error) { return nil, session.ErrNoToken },
	}}

	p := New("test", source, nil, time.Minute, time.Hour, testLogger())
	p.Refresh(context.Background(), false)

	snapshot := p.Snapshot()
	require.True(t, snapshot.NotAuthenticated)
	require.Equal(t, "not_authenticated", snapshot.ErrorKind)
}

func TestNoApplicationAfterStop(t *testing.T) {
	source := &scriptedSource{results: []func() ([]models.Check, error){
		func() ([]models.Check, error) { return []models.Check{namedCheck("late", "pending")}, nil },
	}}

	p := New("test", source, nil, time.Minute, time.Hour, testLogger())
	updates, cancel := p.Subscribe()
	defer cancel()

	p.Stop()
	p.Refresh(context.Background(), false)

	require.Equal(t, 0, p.Snapshot().Buckets.Total())
	select {
	case snapshot, ok := <-updates:
		require.False(t, ok, "unexpected snapshot after stop: %+v", snapshot)
	default:
	}
}

func TestStopCancelsInFlightFetch(t *testing.T) {
	source := &blockingSource{}
	p := New("test", source, nil, time.Minute, time.Hour, testLogger())

	p.Start(context.Background())
	require.Eventually(t, func() bool { return source.callCount() == 1 }, time.Second, time.Millisecond)

	finished := make(chan struct{})
	go func() {
		p.Stop()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not unblock the in-flight fetch")
	}

	require.Equal(t, 0, p.Snapshot().Buckets.Total())
}

func TestSubscribersReceiveAppliedSnapshots(t *testing.T) {
	source := &scriptedSource{results: []func() ([]models.Check, error){
		func() ([]models.Check, error) { return []models.Check{namedCheck("a", "completed")}, nil },
	}}

	p := New("test", source, nil, time.Minute, time.Hour, testLogger())
	updates, cancel := p.Subscribe()
	defer cancel()

	p.Refresh(context.Background(), false)

	select {
	case snapshot := <-updates:
		require.Len(t, snapshot.Buckets.Completed, 1)
	case <-time.After(time.Second):
		t.Fatal("subscriber never notified")
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	source := &scriptedSource{results: []func() ([]models.Check, error){
		func() ([]models.Check, error) { return []models.Check{namedCheck("cached", "pending")}, nil },
	}}

	first := New("dashboard", source, cache, time.Minute, time.Hour, testLogger())
	first.Refresh(context.Background(), false)
	require.Equal(t, 1, first.Snapshot().Buckets.Total())

	// A fresh poller with the same view name starts from the cached
	// last-known-good snapshot, flagged stale until a live fetch lands.
	blocked := &blockingSource{}
	second := New("dashboard", blocked, cache, time.Minute, time.Hour, testLogger())
	second.Start(context.Background())
	defer second.Stop()

	require.Eventually(t, func() bool {
		snapshot := second.Snapshot()
		return snapshot.Buckets.Total() == 1 && snapshot.Stale
	}, time.Second, time.Millisecond)
	require.Equal(t, "cached", second.Snapshot().Buckets.Pending[0].CheckID)
}
