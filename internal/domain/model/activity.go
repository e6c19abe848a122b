// Package model contains domain models passed between layers.
package model

import "time"

// Activity type discriminators as they appear in the osu! recent-activity feed.
const (
	TypeRank     = "rank"
	TypeRankLost = "rankLost"
)

// Activity represents one event from a user's recent-activity feed.
// Only rank-achievement events carry a rank and beatmap title; all other
// types are ignored by the tracker.
type Activity struct {
	Type         string    // feed event type, e.g. "rank"
	Rank         int       // 1-based leaderboard placement; lower is better
	BeatmapTitle string    // display title of the played beatmap
	CreatedAt    time.Time // when the event occurred
}

// IsRank reports whether this activity is a rank-achievement event.
func (a Activity) IsRank() bool {
	return a.Type == TypeRank
}
