// Package types contains common types used across the application
package types

// Totals carries the combined lifetime leaderboard-appearance counts
// (baseline plus current session) returned by a tracker invocation.
type Totals struct {
	Top50 int `json:"top50"`
	Top8  int `json:"top8"`
}
