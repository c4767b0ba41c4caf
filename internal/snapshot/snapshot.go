// Package snapshot caches the canonical country collection between
// requests. Refreshes use a single-writer/many-readers discipline with
// a TTL policy; queries always read a consistent, immutable snapshot.
package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/atlasboard/country-data-service/internal/domain"
	"github.com/atlasboard/country-data-service/internal/observability"
)

// Fetcher supplies the raw record collection. It is the pipeline's only
// I/O boundary and is expected to return within a bounded time or fail
// explicitly.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.RawCountry, error)
}

// Publisher is notified with each freshly normalized snapshot. Pass nil
// to disable publishing.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// Store holds the current canonical snapshot and refreshes it on demand
// once the TTL has elapsed.
type Store struct {
	fetcher   Fetcher
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ttl       time.Duration
	clock     clockwork.Clock

	// refreshMu serializes refreshes; mu guards the published snapshot.
	refreshMu sync.Mutex
	mu        sync.RWMutex
	current   domain.Snapshot
	hasData   bool
}

// New creates a Store. The snapshot is fetched lazily on first use.
func New(fetcher Fetcher, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, ttl time.Duration) *Store {
	return &Store{
		fetcher:   fetcher,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		ttl:       ttl,
		clock:     clockwork.NewRealClock(),
	}
}

// Snapshot returns the current snapshot, refreshing it first when the
// TTL has elapsed or nothing has been fetched yet. When a refresh fails
// but an earlier one succeeded, the stale snapshot is served and the
// failure only logged; the error surfaces once there is no data at all.
func (s *Store) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if snap, ok := s.fresh(); ok {
		return snap, nil
	}
	return s.refresh(ctx)
}

// Countries returns the canonical collection of the current snapshot.
func (s *Store) Countries(ctx context.Context) ([]domain.Country, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Countries, nil
}

// CheckReadiness returns nil once at least one refresh has succeeded.
func (s *Store) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasData {
		return errors.New("no country snapshot loaded yet")
	}
	return nil
}

func (s *Store) fresh() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hasData && s.clock.Since(s.current.FetchedAt) < s.ttl {
		return s.current, true
	}
	return domain.Snapshot{}, false
}

func (s *Store) refresh(ctx context.Context) (domain.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another request may have refreshed while this one waited.
	if snap, ok := s.fresh(); ok {
		return snap, nil
	}

	raw, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.metrics.SnapshotRefreshes.WithLabelValues("error").Inc()

		s.mu.RLock()
		stale, hasData := s.current, s.hasData
		s.mu.RUnlock()
		if hasData {
			s.logger.Warn("snapshot refresh failed, serving stale data",
				"error", err, "age", s.clock.Since(stale.FetchedAt))
			return stale, nil
		}
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{
		Countries: domain.Normalize(raw),
		FetchedAt: s.clock.Now(),
	}

	s.mu.Lock()
	s.current = snap
	s.hasData = true
	s.mu.Unlock()

	s.metrics.SnapshotRefreshes.WithLabelValues("success").Inc()
	s.metrics.SnapshotCountries.Set(float64(len(snap.Countries)))
	s.metrics.SnapshotLastRefresh.Set(float64(snap.FetchedAt.Unix()))
	s.logger.Info("snapshot refreshed", "countries", len(snap.Countries))

	if s.publisher != nil {
		if err := s.publisher.PublishSnapshot(ctx, snap); err != nil {
			// Publishing is best-effort; queries still get the new snapshot.
			s.logger.Warn("snapshot publish failed", "error", err)
		}
	}

	return snap, nil
}
