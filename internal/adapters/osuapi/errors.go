package osuapi

import "errors"

// Sentinel kinds for upstream API errors.
var (
	ErrRequestFailed    = errors.New("upstream request failed")
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrDecodeResponse   = errors.New("decode upstream response failed")
)
