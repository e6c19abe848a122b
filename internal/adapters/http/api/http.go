// Package api declares HTTP contracts and route registration helpers for
// the ops surface (health, status, stats, metrics). The tracker itself
// exposes no wire protocol; everything here is observability.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hikaya/spotwatch/internal/domain/tracker"
	"github.com/hikaya/spotwatch/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// LatestTotals returns the most recent successful cycle result;
	// false until the first cycle completes.
	LatestTotals() (types.Totals, bool)

	// Snapshot exposes the persisted tracker state read-only.
	Snapshot(ctx context.Context) (tracker.Snapshot, error)
}

// Server wires HTTP routes for the ops API.
type Server struct {
	healthHandler *HealthHandler
	statusHandler *StatusHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new ops API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statusHandler: NewStatusHandler(deps),
		statsHandler:  NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/status", MetricsMiddleware(s.statusHandler.HandleStatus, "status"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
