package osuapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hikaya/spotwatch/internal/domain/model"
)

// activityEvent mirrors one element of the osu! v2 recent_activity response.
// Only rank events carry a rank and a beatmap.
type activityEvent struct {
	Type      string    `json:"type"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
	Beatmap   *struct {
		Title string `json:"title"`
	} `json:"beatmap,omitempty"`
}

// toActivity converts a feed event to the domain model.
func (e *activityEvent) toActivity() model.Activity {
	a := model.Activity{
		Type:      e.Type,
		Rank:      e.Rank,
		CreatedAt: e.CreatedAt,
	}
	if e.Beatmap != nil {
		a.BeatmapTitle = e.Beatmap.Title
	}
	return a
}

// RecentActivity fetches the configured user's recent-activity feed.
// It implements tracker.ActivitySource.
func (c *Client) RecentActivity(ctx context.Context) ([]model.Activity, error) {
	url := fmt.Sprintf("%s/users/%d/recent_activity?limit=%d",
		c.apiBaseURL, c.userID, c.activityLimit)

	var events []activityEvent
	err := c.doJSON(ctx, c.apiClient, "recent_activity", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, &events)
	if err != nil {
		return nil, err
	}

	activities := make([]model.Activity, len(events))
	for i := range events {
		activities[i] = events[i].toActivity()
	}
	return activities, nil
}
