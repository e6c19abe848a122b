// Package metrics provides Prometheus metrics for the spotwatch tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the spotwatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core Business Metrics - what the tracker actually produces
	newTop50Spots    prometheus.Counter
	newTop8Spots     prometheus.Counter
	rankImprovements prometheus.Counter
	activitiesSeen   prometheus.Counter
	baselineFetches  prometheus.Counter

	// Poll Cycle Metrics
	pollCycles   prometheus.Counter
	pollFailures prometheus.Counter
	pollDuration prometheus.Histogram

	// Current State Metrics
	trackedTitlesTop50 prometheus.Gauge
	trackedTitlesTop8  prometheus.Gauge
	lifetimeTop50      prometheus.Gauge
	lifetimeTop8       prometheus.Gauge
	runCount           prometheus.Gauge

	// Upstream API Metrics
	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec

	// Store Metrics
	storeErrors prometheus.Counter

	// Ops HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "spotwatch",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.newTop50Spots = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "new_top50_spots_total",
		Help:      "Total number of new top-50 leaderboard spots recorded",
	})

	m.newTop8Spots = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "new_top8_spots_total",
		Help:      "Total number of new top-8 leaderboard spots recorded",
	})

	m.rankImprovements = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_improvements_total",
		Help:      "Total number of best-rank improvements on already-tracked titles",
	})

	m.activitiesSeen = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activities_seen_total",
		Help:      "Total number of activity records consumed from the feed",
	})

	m.baselineFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "baseline_fetches_total",
		Help:      "Total number of baseline total-count fetches (first run only)",
	})

	m.pollCycles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_cycles_total",
		Help:      "Total number of completed polling cycles",
	})

	m.pollFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_failures_total",
		Help:      "Total number of polling cycles that produced no update",
	})

	m.pollDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_duration_milliseconds",
		Help:      "Histogram of full poll-cycle duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.trackedTitlesTop50 = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_titles_top50",
		Help:      "Number of distinct titles currently tracked in the top-50 map",
	})

	m.trackedTitlesTop8 = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_titles_top8",
		Help:      "Number of distinct titles currently tracked in the top-8 map",
	})

	m.lifetimeTop50 = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lifetime_top50_count",
		Help:      "Combined lifetime top-50 appearance count (baseline + session)",
	})

	m.lifetimeTop8 = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lifetime_top8_count",
		Help:      "Combined lifetime top-8 appearance count (baseline + session)",
	})

	m.runCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_count",
		Help:      "Number of tracker invocations since the last external reset",
	})

	m.apiRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "api_requests_total",
			Help:      "Total number of upstream API requests by endpoint and status",
		},
		[]string{"endpoint", "status_code"},
	)

	m.apiRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "api_request_duration_milliseconds",
			Help:      "Upstream API request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint"},
	)

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of counter store read/write errors",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of ops HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Ops HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level convenience functions using the global manager.

// RecordNewTop50Spot increments the new top-50 spot counter.
func RecordNewTop50Spot() {
	globalManager.newTop50Spots.Inc()
}

// RecordNewTop8Spot increments the new top-8 spot counter.
func RecordNewTop8Spot() {
	globalManager.newTop8Spots.Inc()
}

// RecordRankImprovement increments the best-rank improvement counter.
func RecordRankImprovement() {
	globalManager.rankImprovements.Inc()
}

// RecordActivitiesSeen adds to the consumed-activity counter.
func RecordActivitiesSeen(n int) {
	globalManager.activitiesSeen.Add(float64(n))
}

// RecordBaselineFetch increments the baseline fetch counter.
func RecordBaselineFetch() {
	globalManager.baselineFetches.Inc()
}

// RecordPollCycle increments the completed poll cycle counter.
func RecordPollCycle() {
	globalManager.pollCycles.Inc()
}

// RecordPollFailure increments the failed poll cycle counter.
func RecordPollFailure() {
	globalManager.pollFailures.Inc()
}

// RecordPollDuration records a poll cycle duration in milliseconds.
func RecordPollDuration(durationMs float64) {
	globalManager.pollDuration.Observe(durationMs)
}

// UpdateTrackedTitles sets the current tracked-title gauges.
func UpdateTrackedTitles(top50, top8 int) {
	globalManager.trackedTitlesTop50.Set(float64(top50))
	globalManager.trackedTitlesTop8.Set(float64(top8))
}

// UpdateLifetimeTotals sets the combined lifetime total gauges.
func UpdateLifetimeTotals(top50, top8 int) {
	globalManager.lifetimeTop50.Set(float64(top50))
	globalManager.lifetimeTop8.Set(float64(top8))
}

// UpdateRunCount sets the run counter gauge.
func UpdateRunCount(count int) {
	globalManager.runCount.Set(float64(count))
}

// RecordAPIRequest records an upstream API request outcome.
func RecordAPIRequest(endpoint, statusCode string) {
	globalManager.apiRequests.WithLabelValues(endpoint, statusCode).Inc()
}

// RecordAPIRequestDuration records an upstream API request duration in milliseconds.
func RecordAPIRequestDuration(endpoint string, durationMs float64) {
	globalManager.apiRequestDuration.WithLabelValues(endpoint).Observe(durationMs)
}

// RecordStoreError increments the counter store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// RecordHTTPRequest records an ops HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an ops HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
