// Package mockosu serves canned versions of the three upstream endpoints
// the tracker depends on (OAuth token, recent activity, osu!stats counts),
// so the daemon can be exercised locally without credentials.
package mockosu

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// Event is one canned recent-activity entry.
type Event struct {
	Type    string `json:"type"`
	Rank    int    `json:"rank,omitempty"`
	Beatmap *struct {
		Title string `json:"title"`
	} `json:"beatmap,omitempty"`
}

// RankEvent builds a canned rank-achievement event.
func RankEvent(title string, rank int) Event {
	return Event{
		Type: "rank",
		Rank: rank,
		Beatmap: &struct {
			Title string `json:"title"`
		}{Title: title},
	}
}

// Server holds the canned fixture data.
type Server struct {
	mu sync.RWMutex

	events []Event
	counts map[int]int // rankMax -> lifetime count
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithEvents seeds the recent-activity feed.
func WithEvents(events []Event) Option {
	return func(s *Server) {
		s.events = events
	}
}

// WithCount seeds the aggregator count for a rank ceiling.
func WithCount(rankMax, count int) Option {
	return func(s *Server) {
		s.counts[rankMax] = count
	}
}

// New creates a mock server with default fixtures.
func New(opts ...Option) *Server {
	s := &Server{
		events: []Event{
			RankEvent("Freedom Dive", 42),
			RankEvent("Blue Zenith", 6),
			{Type: "achievement"},
		},
		counts: map[int]int{50: 100, 8: 20},
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetEvents replaces the activity feed at runtime.
func (s *Server) SetEvents(events []Event) {
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
}

// Handler returns the HTTP handler serving all mocked endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", s.handleToken)
	mux.HandleFunc("/api/v2/users/", s.handleRecentActivity)
	mux.HandleFunc("/api/getScores", s.handleGetScores)
	return mux
}

// handleToken answers the client-credentials grant with a static token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token_type":   "Bearer",
		"expires_in":   86400,
		"access_token": "mock-access-token",
	})
}

// handleRecentActivity serves the canned feed for any user id.
func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || !strings.HasSuffix(r.URL.Path, "/recent_activity") {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	events := s.events
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

// handleGetScores serves the aggregator's positional response tuple.
func (s *Server) handleGetScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var query struct {
		RankMax int `json:"rankMax"`
	}
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, fmt.Sprintf("bad query: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	count := s.counts[query.RankMax]
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	// Shape: [scores, total count, has more pages]
	_ = json.NewEncoder(w).Encode([]any{[]any{}, count, false})
}
