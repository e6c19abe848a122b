package osuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// scoresQuery mirrors the osu!stats /api/getScores request body.
type scoresQuery struct {
	AccMin    float64 `json:"accMin"`
	AccMax    float64 `json:"accMax"`
	RankMin   int     `json:"rankMin"`
	RankMax   int     `json:"rankMax"`
	SortBy    int     `json:"sortBy"`
	SortOrder int     `json:"sortOrder"`
	Page      int     `json:"page"`
	Username  string  `json:"u1"`
}

// TotalLeaderboardCount returns the user's lifetime count of leaderboard
// appearances at or below rankMax, from the osu!stats aggregator.
// It implements tracker.BaselineFetcher.
//
// The aggregator responds with a positional tuple; the second element is
// the total score count matching the query.
func (c *Client) TotalLeaderboardCount(ctx context.Context, rankMax int) (int, error) {
	query := scoresQuery{
		AccMin:    0,
		AccMax:    100,
		RankMin:   1,
		RankMax:   rankMax,
		SortBy:    2,
		SortOrder: 0,
		Page:      1,
		Username:  c.username,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	url := c.statsBaseURL + "/api/getScores"

	var tuple []json.RawMessage
	err = c.doJSON(ctx, c.statsClient, "get_scores", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &tuple)
	if err != nil {
		return 0, err
	}

	if len(tuple) < 2 {
		return 0, fmt.Errorf("%w: tuple has %d elements", ErrDecodeResponse, len(tuple))
	}
	var count int
	if err := json.Unmarshal(tuple[1], &count); err != nil {
		return 0, fmt.Errorf("%w: count element: %w", ErrDecodeResponse, err)
	}
	return count, nil
}
