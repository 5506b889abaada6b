package lineup_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasycoach/coach-engine/internal/lineup"
)

func newOptimizeServer() *lineup.Service {
	return lineup.NewService(
		&fixedProjections{points: map[string]float64{"p1": 15, "p2": 10}},
		neutralMatchups{}, nil, nil, nil,
	)
}

func postOptimize(t *testing.T, svc *lineup.Service, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lineup/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	svc.HandleOptimize(w, req)
	return w
}

func TestHandleOptimize_Success(t *testing.T) {
	body, _ := json.Marshal(lineup.OptimizeRequest{Roster: roster("p1", "p2")})
	w := postOptimize(t, newOptimizeServer(), string(body))

	require.Equal(t, http.StatusOK, w.Code)

	var resp lineup.OptimizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.RosterCount)
	assert.Equal(t, 2, resp.OptimizedCount)
	assert.NotNil(t, resp.Changes)
	assert.NotNil(t, resp.Explanations)
}

func TestHandleOptimize_EnvelopeKeys(t *testing.T) {
	body, _ := json.Marshal(lineup.OptimizeRequest{Roster: roster("p1")})
	w := postOptimize(t, newOptimizeServer(), string(body))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{
		"lineup_optimizado", "cambios_sugeridos", "explicaciones",
		"roster_count", "optimized_count", "success",
	} {
		assert.Contains(t, raw, key)
	}
}

func TestHandleOptimize_InvalidJSON(t *testing.T) {
	w := postOptimize(t, newOptimizeServer(), "{not json")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "roster must be a non-empty array of players", resp["error"])
}

func TestHandleOptimize_EmptyRoster(t *testing.T) {
	w := postOptimize(t, newOptimizeServer(), `{"roster":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleOptimize_MissingRosterField(t *testing.T) {
	w := postOptimize(t, newOptimizeServer(), `{"leagueKey":"nfl.l.1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
