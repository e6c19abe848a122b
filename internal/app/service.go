// Package app provides the core service wiring that implements
// the dependencies required by the ops HTTP surface.
package app

import (
	"context"
	"sync"

	"github.com/hikaya/spotwatch/internal/adapters/osuapi"
	"github.com/hikaya/spotwatch/internal/adapters/poll"
	"github.com/hikaya/spotwatch/internal/adapters/store"
	"github.com/hikaya/spotwatch/internal/config"
	"github.com/hikaya/spotwatch/internal/domain/tracker"
	"github.com/hikaya/spotwatch/internal/domain/types"
	"github.com/hikaya/spotwatch/pkg/logger"
)

// Service wires the counter store, the osu! client, the tracker and the
// poller together and owns their lifecycle.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	// Core components
	store   *store.SQLiteStore
	client  *osuapi.Client
	tracker *tracker.Tracker
	poller  *poll.Poller

	// Most recent successful cycle result, for /status.
	lastTotals types.Totals
	hasTotals  bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service from configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg: cfg,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting spot tracker service...")

	st, err := store.NewSQLiteStore(ctx, s.cfg.DBPath)
	if err != nil {
		return err
	}
	s.store = st

	s.client = osuapi.New(ctx, s.cfg.OsuClientID, s.cfg.OsuClientSecret,
		osuapi.WithUserID(s.cfg.OsuUserID),
		osuapi.WithUsername(s.cfg.OsuUsername),
		osuapi.WithAPIBaseURL(s.cfg.OsuAPIBaseURL),
		osuapi.WithStatsBaseURL(s.cfg.OsuStatsBaseURL),
		osuapi.WithTokenURL(s.cfg.OsuTokenURL),
		osuapi.WithActivityLimit(s.cfg.ActivityLimit),
		osuapi.WithTimeout(s.cfg.RequestTimeout()),
		osuapi.WithMaxRetries(s.cfg.MaxRetries),
		osuapi.WithRateLimit(s.cfg.RateLimitRPS),
	)

	s.tracker = tracker.New(s.store, s.client, s.client)

	s.poller = poll.New(s.tracker,
		poll.WithInterval(s.cfg.PollInterval()),
		poll.WithTotalsCallback(s.setTotals),
	)
	if err := s.poller.Start(ctx); err != nil {
		_ = s.store.Close()
		return err
	}

	s.started = true
	s.logger.Info(ctx, "spot tracker service started",
		logger.Int("userID", s.cfg.OsuUserID),
		logger.Duration("interval", s.cfg.PollInterval()),
		logger.String("db", s.cfg.DBPath),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping spot tracker service...")

	if s.poller != nil {
		if err := s.poller.Stop(); err != nil {
			s.logger.Warn(context.Background(), "poller shutdown failed", logger.Error(err))
		}
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "spot tracker service stopped")
}

// setTotals records the result of a successful cycle.
func (s *Service) setTotals(t types.Totals) {
	s.mu.Lock()
	s.lastTotals = t
	s.hasTotals = true
	s.mu.Unlock()
}

// LatestTotals returns the totals of the most recent successful cycle.
// The bool is false until the first cycle completes.
func (s *Service) LatestTotals() (types.Totals, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTotals, s.hasTotals
}

// Snapshot exposes the persisted tracker state read-only.
func (s *Service) Snapshot(ctx context.Context) (tracker.Snapshot, error) {
	s.mu.RLock()
	tr := s.tracker
	s.mu.RUnlock()
	if tr == nil {
		return tracker.Snapshot{}, ErrNotStarted
	}
	return tr.Snapshot(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"pollInterval": s.cfg.PollInterval().String(),
		"userID":       s.cfg.OsuUserID,
	}
	if s.hasTotals {
		stats["top50"] = s.lastTotals.Top50
		stats["top8"] = s.lastTotals.Top8
	}
	return stats
}
