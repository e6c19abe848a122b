package poll

import (
	"time"

	"github.com/hikaya/spotwatch/internal/domain/types"
	"github.com/hikaya/spotwatch/pkg/logger"
)

// Option applies a configuration option to the Poller.
type Option func(*Poller)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithTotalsCallback registers a callback invoked with the totals of
// every successful cycle.
func WithTotalsCallback(fn func(types.Totals)) Option {
	return func(p *Poller) {
		if fn != nil {
			p.onTotals = fn
		}
	}
}

// WithLogger sets a custom logger for the poller.
func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}
