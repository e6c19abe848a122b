// Package poll schedules tracker invocations on a fixed interval.
//
// The tracker's read-modify-write cycle tolerates no concurrent
// invocations, so the job runs in singleton mode: a cycle that overruns
// the interval delays the next one instead of overlapping it.
package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/hikaya/spotwatch/internal/domain/tracker"
	"github.com/hikaya/spotwatch/internal/domain/types"
	"github.com/hikaya/spotwatch/pkg/logger"
	"github.com/hikaya/spotwatch/pkg/metrics"
)

// Default polling configuration constants.
const (
	defaultInterval = 60 * time.Second
)

// Runner is the operation invoked once per polling cycle.
type Runner interface {
	Track(ctx context.Context) (types.Totals, error)
}

// Poller owns the scheduler that drives the tracker.
type Poller struct {
	mu sync.Mutex

	runner    Runner
	interval  time.Duration
	onTotals  func(types.Totals)
	scheduler gocron.Scheduler
	started   bool

	logger logger.Logger
}

// New constructs a Poller around the given runner.
func New(runner Runner, opts ...Option) *Poller {
	p := &Poller{
		runner:   runner,
		interval: defaultInterval,
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start schedules the polling job and fires the first cycle immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	job, err := s.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(p.runOnce, ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("schedule job: %w", err)
	}

	s.Start()
	p.scheduler = s
	p.started = true

	// Duration jobs wait a full interval before the first run.
	if err := job.RunNow(); err != nil {
		p.log().Warn(ctx, "immediate first poll failed to schedule", logger.Error(err))
	}

	p.log().Info(ctx, "poller started", logger.Duration("interval", p.interval))
	return nil
}

// Stop shuts the scheduler down, waiting for a running cycle to finish.
func (p *Poller) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil
	}
	p.started = false
	return p.scheduler.Shutdown()
}

// runOnce executes a single polling cycle.
func (p *Poller) runOnce(ctx context.Context) {
	cycleID := uuid.New().String()
	start := time.Now()

	totals, err := p.runner.Track(ctx)
	metrics.RecordPollDuration(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordPollFailure()
		if errors.Is(err, tracker.ErrActivityUnavailable) {
			// No update this cycle; state is untouched and the next
			// poll retries from the same point.
			p.log().Warn(ctx, "activity feed unavailable, skipping cycle",
				logger.String("cycle", cycleID), logger.Error(err))
			return
		}
		p.log().Error(ctx, "tracking cycle failed",
			logger.String("cycle", cycleID), logger.Error(err))
		return
	}

	metrics.RecordPollCycle()
	if p.onTotals != nil {
		p.onTotals(totals)
	}

	p.log().Info(ctx, "tracking cycle finished",
		logger.String("cycle", cycleID),
		logger.Int("top50", totals.Top50),
		logger.Int("top8", totals.Top8),
		logger.Duration("took", time.Since(start)),
	)
}

// log resolves the logger lazily so construction does not require a
// globally initialized logger.
func (p *Poller) log() logger.Logger {
	if p.logger == nil {
		p.logger = logger.Get().Named("poll")
	}
	return p.logger
}
