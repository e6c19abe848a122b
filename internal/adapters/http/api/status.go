package api

import (
	"net/http"

	"github.com/hikaya/spotwatch/internal/domain/types"
)

// StatusHandler reports the latest tracked totals and persisted state.
type StatusHandler struct {
	deps Dependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps Dependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// statusResponse is the JSON shape of GET /status.
type statusResponse struct {
	Totals       *types.Totals `json:"totals,omitempty"`
	RunCount     int           `json:"runCount"`
	TrackedTop50 int           `json:"trackedTop50"`
	TrackedTop8  int           `json:"trackedTop8"`
}

// HandleStatus handles GET /status requests.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	snap, err := h.deps.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot_failed", err)
		return
	}

	resp := statusResponse{
		RunCount:     snap.RunCount,
		TrackedTop50: snap.TrackedTop50,
		TrackedTop8:  snap.TrackedTop8,
	}
	if totals, ok := h.deps.LatestTotals(); ok {
		resp.Totals = &totals
	}

	writeJSON(w, http.StatusOK, resp)
}
