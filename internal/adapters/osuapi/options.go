package osuapi

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/hikaya/spotwatch/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithUserID selects whose activity feed is polled.
func WithUserID(id int) Option {
	return func(c *Client) {
		if id > 0 {
			c.userID = id
		}
	}
}

// WithUsername sets the name used by the osu!stats aggregator queries.
func WithUsername(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.username = name
		}
	}
}

// WithAPIBaseURL overrides the osu! v2 API base URL.
func WithAPIBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.apiBaseURL = url
		}
	}
}

// WithStatsBaseURL overrides the osu!stats aggregator base URL.
func WithStatsBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.statsBaseURL = url
		}
	}
}

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.tokenURL = url
		}
	}
}

// WithActivityLimit caps the recent-activity page size.
func WithActivityLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.activityLimit = limit
		}
	}
}

// WithTimeout bounds a single upstream request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRetries caps retry attempts per upstream call.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = uint64(n)
		}
	}
}

// WithRateLimit throttles upstream requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), rateLimitBurst)
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
