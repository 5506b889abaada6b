package lineup

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fantasycoach/coach-engine/internal/metrics"
	"github.com/fantasycoach/coach-engine/internal/model"
)

// OptimizeRequest is the JSON body for POST /api/lineup/optimize.
type OptimizeRequest struct {
	Roster    []map[string]any `json:"roster"`
	LeagueKey string           `json:"leagueKey,omitempty"`
	SessionID string           `json:"sessionId,omitempty"`
}

// OptimizeResponse is the response envelope. The same shape is used for
// errors (with empty arrays) so callers never special-case parsing.
type OptimizeResponse struct {
	Success        bool                   `json:"success"`
	Lineup         []model.LineupEntry    `json:"lineup_optimizado"`
	Changes        []model.Recommendation `json:"cambios_sugeridos"`
	Explanations   []model.Explanation    `json:"explicaciones"`
	RosterCount    int                    `json:"roster_count"`
	OptimizedCount int                    `json:"optimized_count"`
	Error          string                 `json:"error,omitempty"`
}

// HandleOptimize handles POST /api/lineup/optimize.
func (s *Service) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.OptimizeRequests.WithLabelValues("invalid").Inc()
		writeError(w, "roster must be a non-empty array of players", http.StatusBadRequest)
		return
	}
	if len(req.Roster) == 0 {
		metrics.OptimizeRequests.WithLabelValues("invalid").Inc()
		writeError(w, "roster must be a non-empty array of players", http.StatusBadRequest)
		return
	}

	// Assignment and explanation are pure functions over in-memory data, so
	// a panic here means a bug, not bad input. Degrade to a valid envelope.
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("optimize pipeline panicked", "panic", rec)
			metrics.OptimizeRequests.WithLabelValues("error").Inc()
			writeJSON(w, http.StatusInternalServerError, errorEnvelope("internal error while optimizing lineup"))
		}
	}()

	resp := s.Optimize(r.Context(), req)

	metrics.OptimizeRequests.WithLabelValues("ok").Inc()
	metrics.OptimizeDuration.Observe(time.Since(start).Seconds())

	slog.Info("lineup optimized",
		"roster_count", resp.RosterCount,
		"optimized_count", resp.OptimizedCount,
		"changes", len(resp.Changes),
		"league_key", req.LeagueKey,
	)

	writeJSON(w, http.StatusOK, resp)
}

// errorEnvelope builds the degraded response: same shape as success, empty
// arrays, one explanatory entry.
func errorEnvelope(msg string) OptimizeResponse {
	return OptimizeResponse{
		Success: false,
		Error:   msg,
		Lineup:  []model.LineupEntry{},
		Changes: []model.Recommendation{},
		Explanations: []model.Explanation{
			{PlayerID: "system", PlayerName: "system", Explanation: msg},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]any{"error": message, "success": false})
}
