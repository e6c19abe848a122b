package tracker

import "github.com/hikaya/spotwatch/pkg/logger"

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithLogger sets a custom logger for the tracker.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}
