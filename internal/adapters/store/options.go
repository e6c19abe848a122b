package store

import "time"

// Default sqlite tuning constants.
const (
	defaultBusyTimeout = 5 * time.Second
)

type options struct {
	busyTimeout time.Duration
}

func defaultOptions() options {
	return options{
		busyTimeout: defaultBusyTimeout,
	}
}

// Option applies a configuration option to the SQLiteStore.
type Option func(*options)

// WithBusyTimeout sets how long sqlite waits on a locked database
// before giving up.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}
