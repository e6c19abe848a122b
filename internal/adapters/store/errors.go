package store

import "errors"

// Sentinel kinds for counter store errors.
var (
	ErrOpenStore = errors.New("open store failed")
	ErrBadValue  = errors.New("stored value is not valid JSON")
)
