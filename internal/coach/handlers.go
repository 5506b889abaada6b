package coach

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// fallbackAnswer is returned when the upstream model is unreachable.
const fallbackAnswer = "Sorry, having trouble connecting to my brain. Try again!"

// Handlers exposes the coaching advice routes.
type Handlers struct {
	client *Client
}

// NewHandlers creates the coach route handlers.
func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /api/coach/ask. Upstream failures degrade to a canned
// answer rather than an error status.
func (h *Handlers) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	answer, err := h.client.Ask(r.Context(), req.Question)
	if err != nil {
		slog.Warn("coach advice failed", "err", err)
		answer = fallbackAnswer
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
