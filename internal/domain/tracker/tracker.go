// Package tracker implements the incremental leaderboard-spot tracker.
//
// Each invocation folds one batch of recent-activity records into two
// persistent best-rank maps (top-50 and top-8), keeps per-session counters
// of newly seen titles, reconciles a one-time lifetime baseline on the
// very first run, and returns the combined lifetime totals.
package tracker

import (
	"context"
	"fmt"

	"github.com/hikaya/spotwatch/internal/adapters/store"
	"github.com/hikaya/spotwatch/internal/domain/model"
	"github.com/hikaya/spotwatch/internal/domain/types"
	"github.com/hikaya/spotwatch/pkg/logger"
	"github.com/hikaya/spotwatch/pkg/metrics"
)

// Rank thresholds for the two tracked maps.
const (
	top50Threshold = 50
	top8Threshold  = 8
)

// Store keys. Stable across invocations; never deleted by the tracker.
const (
	keyTop50Spots = "top50s_spots"
	keyTop50Count = "top50s_count"
	keyTop8Spots  = "top8s_spots"
	keyTop8Count  = "top8s_count"
	keyRunCount   = "runCount"
	keyTotalTop50 = "Total_top50s_count"
	keyTotalTop8  = "Total_top8s_count"
)

// ActivitySource produces one batch of recent-activity records on demand.
// The source resolves the current user itself; an error means the feed is
// unavailable this cycle and nothing must be persisted.
type ActivitySource interface {
	RecentActivity(ctx context.Context) ([]model.Activity, error)
}

// BaselineFetcher returns the user's lifetime leaderboard-appearance count
// at or below the given rank ceiling, independent of the tracked session.
type BaselineFetcher interface {
	TotalLeaderboardCount(ctx context.Context, rankMax int) (int, error)
}

// Tracker folds activity batches into persistent best-rank state.
// It assumes at most one concurrent invocation per store; the read-
// modify-write cycle has no coordination primitive of its own.
type Tracker struct {
	store    store.Store
	source   ActivitySource
	baseline BaselineFetcher
	logger   logger.Logger
}

// New constructs a Tracker over the given collaborators.
func New(st store.Store, source ActivitySource, baseline BaselineFetcher, opts ...Option) *Tracker {
	t := &Tracker{
		store:    st,
		source:   source,
		baseline: baseline,
		logger:   nil, // resolved lazily so tests can skip logger.Init
	}

	// Apply all options
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// state is the full persisted tracker state, loaded at the start of an
// invocation and written back at the end.
type state struct {
	spots50  map[string]int
	count50  int
	spots8   map[string]int
	count8   int
	runCount int
	total50  int
	total8   int
}

// Track runs one polling cycle: fetch activities, fold rank events into
// the best-rank maps, reconcile the baseline on the first run, persist,
// and return combined lifetime totals.
//
// If the activity source fails, Track returns ErrActivityUnavailable and
// leaves every persisted key untouched.
func (t *Tracker) Track(ctx context.Context) (types.Totals, error) {
	activities, err := t.source.RecentActivity(ctx)
	if err != nil {
		return types.Totals{}, fmt.Errorf("%w: %w", ErrActivityUnavailable, err)
	}
	metrics.RecordActivitiesSeen(len(activities))

	st, err := t.load(ctx)
	if err != nil {
		return types.Totals{}, err
	}

	t.fold(ctx, st, activities)

	firstRun := st.runCount == 0
	if firstRun {
		// The first batch only establishes the maps: its session deltas
		// are discarded and lifetime history comes from the aggregator.
		st.count50 = 0
		st.count8 = 0
		st.total50 = t.fetchBaseline(ctx, top50Threshold)
		st.total8 = t.fetchBaseline(ctx, top8Threshold)
	}
	st.runCount++

	if err := t.persist(ctx, st, firstRun); err != nil {
		return types.Totals{}, err
	}

	totals := types.Totals{
		Top50: st.count50 + st.total50,
		Top8:  st.count8 + st.total8,
	}

	metrics.UpdateTrackedTitles(len(st.spots50), len(st.spots8))
	metrics.UpdateLifetimeTotals(totals.Top50, totals.Top8)
	metrics.UpdateRunCount(st.runCount)

	t.log().Debug(ctx, "tracking cycle complete",
		logger.Bool("firstRun", firstRun),
		logger.Int("runCount", st.runCount),
		logger.Int("top50", totals.Top50),
		logger.Int("top8", totals.Top8),
	)

	return totals, nil
}

// fold applies one batch of activities to the in-memory state, in order.
func (t *Tracker) fold(ctx context.Context, st *state, activities []model.Activity) {
	for _, a := range activities {
		if !a.IsRank() {
			continue
		}
		title, rank := a.BeatmapTitle, a.Rank

		best, tracked := st.spots50[title]
		switch {
		case !tracked && rank <= top50Threshold:
			st.spots50[title] = rank
			st.count50++
			metrics.RecordNewTop50Spot()
			if rank <= top8Threshold {
				st.spots8[title] = rank
				st.count8++
				metrics.RecordNewTop8Spot()
			}
			t.log().Debug(ctx, "new leaderboard spot",
				logger.String("title", title), logger.Int("rank", rank))

		case tracked && rank < best:
			// Strict improvement on an already-tracked title.
			st.spots50[title] = rank
			metrics.RecordRankImprovement()
			if _, in8 := st.spots8[title]; !in8 && rank <= top8Threshold {
				st.spots8[title] = rank
				st.count8++
				metrics.RecordNewTop8Spot()
			}
			t.log().Debug(ctx, "rank improved",
				logger.String("title", title),
				logger.Int("from", best), logger.Int("to", rank))
		}
		// Equal or worse ranks, and ranks outside top-50 on unseen
		// titles, change nothing.
	}
}

// load reads the full tracker state; missing keys yield zero values.
func (t *Tracker) load(ctx context.Context) (*state, error) {
	st := &state{
		spots50: make(map[string]int),
		spots8:  make(map[string]int),
	}

	reads := []struct {
		key  string
		dest any
	}{
		{keyTop50Spots, &st.spots50},
		{keyTop50Count, &st.count50},
		{keyTop8Spots, &st.spots8},
		{keyTop8Count, &st.count8},
		{keyRunCount, &st.runCount},
		{keyTotalTop50, &st.total50},
		{keyTotalTop8, &st.total8},
	}
	for _, r := range reads {
		if _, err := t.store.Get(ctx, r.key, r.dest); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("load state: %w", err)
		}
	}
	return st, nil
}

// kv pairs a store key with the value to write.
type kv struct {
	key   string
	value any
}

// persist writes the updated state back. Baseline totals are written only
// on the first run; they are frozen afterwards.
func (t *Tracker) persist(ctx context.Context, st *state, firstRun bool) error {
	writes := []kv{
		{keyTop50Spots, st.spots50},
		{keyTop50Count, st.count50},
		{keyTop8Spots, st.spots8},
		{keyTop8Count, st.count8},
		{keyRunCount, st.runCount},
	}
	if firstRun {
		writes = append(writes,
			kv{keyTotalTop50, st.total50},
			kv{keyTotalTop8, st.total8},
		)
	}

	for _, w := range writes {
		if err := t.store.Set(ctx, w.key, w.value); err != nil {
			metrics.RecordStoreError()
			return fmt.Errorf("persist state: %w", err)
		}
	}
	return nil
}

// fetchBaseline queries the aggregator for one threshold. The collaborator
// contract maps any failure to a count of 0.
func (t *Tracker) fetchBaseline(ctx context.Context, rankMax int) int {
	metrics.RecordBaselineFetch()
	count, err := t.baseline.TotalLeaderboardCount(ctx, rankMax)
	if err != nil {
		t.log().Warn(ctx, "baseline fetch failed; using 0",
			logger.Int("rankMax", rankMax), logger.Error(err))
		return 0
	}
	return count
}

// Snapshot describes the persisted tracker state without mutating it.
type Snapshot struct {
	RunCount      int          `json:"runCount"`
	TrackedTop50  int          `json:"trackedTop50"`
	TrackedTop8   int          `json:"trackedTop8"`
	SessionTop50  int          `json:"sessionTop50"`
	SessionTop8   int          `json:"sessionTop8"`
	LifetimeTotal types.Totals `json:"lifetimeTotal"`
}

// Snapshot loads the current persisted state read-only, for the ops surface.
func (t *Tracker) Snapshot(ctx context.Context) (Snapshot, error) {
	st, err := t.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		RunCount:     st.runCount,
		TrackedTop50: len(st.spots50),
		TrackedTop8:  len(st.spots8),
		SessionTop50: st.count50,
		SessionTop8:  st.count8,
		LifetimeTotal: types.Totals{
			Top50: st.count50 + st.total50,
			Top8:  st.count8 + st.total8,
		},
	}, nil
}

// log resolves the logger lazily so construction does not require a
// globally initialized logger.
func (t *Tracker) log() logger.Logger {
	if t.logger == nil {
		t.logger = logger.Get().Named("tracker")
	}
	return t.logger
}
