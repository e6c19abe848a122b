package app

import "errors"

// Sentinel kinds for service lifecycle errors.
var (
	ErrNotStarted = errors.New("service not started")
)
