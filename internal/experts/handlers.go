package experts

import (
	"encoding/json"
	"net/http"
)

// Handlers exposes the expert consensus routes.
type Handlers struct {
	service *Service
}

// NewHandlers creates the expert consensus route handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// Consensus handles GET /api/expert-consensus?search=
func (h *Handlers) Consensus(w http.ResponseWriter, r *http.Request) {
	players := h.service.Search(r.URL.Query().Get("search"))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(players)
}
