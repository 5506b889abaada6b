package yahoo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fantasycoach/coach-engine/internal/session"
)

// Handlers exposes the OAuth and account routes backed by the Yahoo client.
type Handlers struct {
	client      *Client
	sessions    session.Store
	frontendURL string
}

// NewHandlers creates the Yahoo route handlers.
func NewHandlers(client *Client, sessions session.Store, frontendURL string) *Handlers {
	return &Handlers{
		client:      client,
		sessions:    sessions,
		frontendURL: frontendURL,
	}
}

// AuthURL handles GET /api/auth/yahoo — returns the OAuth authorization URL.
func (h *Handlers) AuthURL(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"url": h.client.AuthURL()})
}

// Callback handles GET /api/auth/yahoo/callback. On success it mints a
// session for the exchanged token and redirects the browser back to the
// frontend; on failure it redirects with an error fragment.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		slog.Warn("yahoo auth denied", "error", errCode)
		http.Redirect(w, r, h.frontendURL+"/#yahoo-error="+errCode, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, h.frontendURL+"/#yahoo-error=no_code", http.StatusFound)
		return
	}

	token, err := h.client.ExchangeCode(r.Context(), code)
	if err != nil {
		slog.Error("yahoo token exchange failed", "err", err)
		http.Redirect(w, r, h.frontendURL+"/#yahoo-error=token_failed", http.StatusFound)
		return
	}

	sessionID := uuid.New().String()
	if err := h.sessions.Put(r.Context(), sessionID, token); err != nil {
		slog.Error("session store failed", "err", err)
		http.Redirect(w, r, h.frontendURL+"/#yahoo-error=session_failed", http.StatusFound)
		return
	}

	slog.Info("yahoo session created", "session_id", sessionID)
	http.Redirect(w, r, h.frontendURL+"/#yahoo-success="+sessionID, http.StatusFound)
}

// Leagues handles GET /api/auth/yahoo/leagues?sessionId=
func (h *Handlers) Leagues(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	leagues, err := h.client.GetUserLeagues(r.Context(), token.AccessToken)
	if err != nil {
		slog.Error("leagues fetch failed", "err", err)
		writeError(w, "failed to fetch leagues", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, leagues)
}

// Teams handles GET /api/auth/yahoo/teams?sessionId=&leagueKey=
func (h *Handlers) Teams(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	leagueKey := r.URL.Query().Get("leagueKey")
	if leagueKey == "" {
		writeError(w, "leagueKey is required", http.StatusBadRequest)
		return
	}

	teams, err := h.client.GetLeagueTeams(r.Context(), token.AccessToken, leagueKey)
	if err != nil {
		if errors.Is(err, ErrInvalidLeagueKey) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("teams fetch failed", "league_key", leagueKey, "err", err)
		writeError(w, "failed to fetch teams", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"teams":     teams,
		"leagueKey": leagueKey,
	})
}

// Roster handles GET /api/auth/yahoo/roster?sessionId=&teamKey=
// The roster document is passed through untyped; the optimize endpoint's
// normalizer absorbs its shape.
func (h *Handlers) Roster(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	teamKey := r.URL.Query().Get("teamKey")
	if teamKey == "" {
		writeError(w, "teamKey is required", http.StatusBadRequest)
		return
	}

	roster, err := h.client.GetTeamRoster(r.Context(), token.AccessToken, teamKey)
	if err != nil {
		if errors.Is(err, ErrInvalidTeamKey) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("roster fetch failed", "team_key", teamKey, "err", err)
		writeError(w, "failed to fetch roster", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"teamKey": teamKey,
		"roster":  roster,
	})
}

// requireSession resolves the sessionId query parameter to a stored token.
func (h *Handlers) requireSession(w http.ResponseWriter, r *http.Request) (*session.Token, bool) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, "sessionId is required", http.StatusBadRequest)
		return nil, false
	}

	token, err := h.sessions.Get(r.Context(), sessionID)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, "invalid or expired session", http.StatusUnauthorized)
		return nil, false
	}
	if err != nil {
		slog.Error("session lookup failed", "err", err)
		writeError(w, "session error", http.StatusInternalServerError)
		return nil, false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
