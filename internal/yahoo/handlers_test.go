package yahoo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasycoach/coach-engine/internal/session"
	"github.com/fantasycoach/coach-engine/internal/yahoo"
)

const frontend = "http://localhost:5173"

func newHandlers(t *testing.T, apiHandler http.HandlerFunc) (*yahoo.Handlers, *session.MemoryStore) {
	t.Helper()
	client := newTestClient(t, apiHandler)
	sessions := session.NewMemoryStore(time.Hour)
	return yahoo.NewHandlers(client, sessions, frontend), sessions
}

func TestCallback_ProviderError(t *testing.T) {
	h, _ := newHandlers(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/yahoo/callback?error=access_denied", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, frontend+"/#yahoo-error=access_denied", w.Header().Get("Location"))
}

func TestCallback_MissingCode(t *testing.T) {
	h, _ := newHandlers(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/yahoo/callback", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, frontend+"/#yahoo-error=no_code", w.Header().Get("Location"))
}

func TestLeagues_MissingSession(t *testing.T) {
	h, _ := newHandlers(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/yahoo/leagues", nil)
	w := httptest.NewRecorder()
	h.Leagues(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeagues_UnknownSession(t *testing.T) {
	h, _ := newHandlers(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/yahoo/leagues?sessionId=ghost", nil)
	w := httptest.NewRecorder()
	h.Leagues(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired session")
}

func TestLeagues_Success(t *testing.T) {
	h, sessions := newHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(userTeamsDoc))
	})
	require.NoError(t, sessions.Put(context.Background(), "sess-1", &session.Token{AccessToken: "tok"}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/yahoo/leagues?sessionId=sess-1", nil)
	w := httptest.NewRecorder()
	h.Leagues(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var leagues []yahoo.League
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leagues))
	require.Len(t, leagues, 1)
	assert.Equal(t, "461.l.111", leagues[0].LeagueKey)
}

func TestTeams_InvalidLeagueKey(t *testing.T) {
	h, sessions := newHandlers(t, nil)
	require.NoError(t, sessions.Put(context.Background(), "sess-1", &session.Token{AccessToken: "tok"}))

	req := httptest.NewRequest(http.MethodGet,
		"/api/auth/yahoo/teams?sessionId=sess-1&leagueKey=bogus", nil)
	w := httptest.NewRecorder()
	h.Teams(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid league key")
}

func TestRoster_UpstreamFailure(t *testing.T) {
	h, sessions := newHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	require.NoError(t, sessions.Put(context.Background(), "sess-1", &session.Token{AccessToken: "tok"}))

	req := httptest.NewRequest(http.MethodGet,
		"/api/auth/yahoo/roster?sessionId=sess-1&teamKey=461.l.111.t.1", nil)
	w := httptest.NewRecorder()
	h.Roster(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAuthURLHandler(t *testing.T) {
	h, _ := newHandlers(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/yahoo", nil)
	w := httptest.NewRecorder()
	h.AuthURL(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.Contains(resp["url"], "request_auth"))
}
