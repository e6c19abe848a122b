package tracker

import "errors"

// Sentinel kinds for tracker errors.
var (
	// ErrActivityUnavailable means the activity feed could not be fetched
	// this cycle. No state was persisted; the caller should retry on the
	// next poll.
	ErrActivityUnavailable = errors.New("activity feed unavailable")
)
