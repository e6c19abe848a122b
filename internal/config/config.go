// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"time"
)

// Default tuning constants.
const (
	defaultPollInterval   = 60 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultActivityLimit  = 51
	defaultMaxRetries     = 4
	defaultRateLimitRPS   = 2.0
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the ops HTTP listen address, e.g. ":9280".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite file backing the counter store.
	DBPath string `koanf:"db_path"`

	// PollIntervalSeconds sets how often the tracker runs.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// ActivityLimit caps the recent-activity page size per poll.
	ActivityLimit int `koanf:"activity_limit"`

	// OsuClientID and OsuClientSecret authenticate against the osu! OAuth
	// token endpoint using the client-credentials grant.
	OsuClientID     string `koanf:"osu_client_id"`
	OsuClientSecret string `koanf:"osu_client_secret"`

	// OsuUserID selects whose activity feed is polled.
	OsuUserID int `koanf:"osu_user_id"`

	// OsuUsername is used by the osu!stats baseline aggregator, which is
	// keyed by name rather than id.
	OsuUsername string `koanf:"osu_username"`

	// Upstream base URLs; overridable for local development against mockosu.
	OsuAPIBaseURL   string `koanf:"osu_api_base_url"`
	OsuStatsBaseURL string `koanf:"osu_stats_base_url"`
	OsuTokenURL     string `koanf:"osu_token_url"`

	// RequestTimeoutSeconds bounds a single upstream request.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`

	// MaxRetries caps retry attempts per upstream call.
	MaxRetries int `koanf:"max_retries"`

	// RateLimitRPS throttles upstream requests per second.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9280",
		DBPath:                "spotwatch.sqlite3",
		PollIntervalSeconds:   int(defaultPollInterval / time.Second),
		ActivityLimit:         defaultActivityLimit,
		OsuAPIBaseURL:         "https://osu.ppy.sh/api/v2",
		OsuStatsBaseURL:       "https://osustats.ppy.sh",
		OsuTokenURL:           "https://osu.ppy.sh/oauth/token",
		RequestTimeoutSeconds: int(defaultRequestTimeout / time.Second),
		MaxRetries:            defaultMaxRetries,
		RateLimitRPS:          defaultRateLimitRPS,
	}
}

// PollInterval returns the polling interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the upstream request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
