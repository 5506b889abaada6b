package coach_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasycoach/coach-engine/internal/coach"
)

func chatServer(t *testing.T, reply string, inspect func(body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if inspect != nil {
			inspect(body)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk(t *testing.T) {
	var seen map[string]any
	srv := chatServer(t, "Start Jefferson this week.", func(body map[string]any) { seen = body })

	client := coach.NewClient(coach.Config{APIKey: "test-key", BaseURL: srv.URL})
	answer, err := client.Ask(context.Background(), "Who do I start?")
	require.NoError(t, err)
	assert.Equal(t, "Start Jefferson this week.", answer)

	msgs := seen["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "Who do I start?", msgs[1].(map[string]any)["content"])
	assert.EqualValues(t, 150, seen["max_tokens"])
}

func TestReviewLineup(t *testing.T) {
	var seen map[string]any
	srv := chatServer(t, `{"verdict":"solid","swaps":2}`, func(body map[string]any) { seen = body })

	client := coach.NewClient(coach.Config{APIKey: "test-key", BaseURL: srv.URL})

	var out struct {
		Verdict string `json:"verdict"`
		Swaps   int    `json:"swaps"`
	}
	err := client.ReviewLineup(context.Background(),
		map[string]any{"players": []string{"a", "b"}}, "Analiza el lineup.", &out)
	require.NoError(t, err)
	assert.Equal(t, "solid", out.Verdict)
	assert.Equal(t, 2, out.Swaps)

	// The payload is serialized into the prompt and JSON output is requested.
	msgs := seen["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].(string)
	assert.True(t, strings.HasPrefix(content, "Analiza el lineup. Datos: "))
	assert.Contains(t, content, `"players"`)
	rf := seen["response_format"].(map[string]any)
	assert.Equal(t, "json_object", rf["type"])
}

func TestReviewLineup_NonJSONReply(t *testing.T) {
	srv := chatServer(t, "sorry, plain text here", nil)
	client := coach.NewClient(coach.Config{APIKey: "test-key", BaseURL: srv.URL})

	var out map[string]any
	err := client.ReviewLineup(context.Background(), map[string]any{}, "p", &out)
	require.Error(t, err)
}

func TestAsk_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := coach.NewClient(coach.Config{APIKey: "test-key", BaseURL: srv.URL})
	_, err := client.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAskHandler_FallbackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	h := coach.NewHandlers(coach.NewClient(coach.Config{APIKey: "test-key", BaseURL: srv.URL}))

	req := httptest.NewRequest(http.MethodPost, "/api/coach/ask",
		strings.NewReader(`{"question":"help"}`))
	w := httptest.NewRecorder()
	h.Ask(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["answer"], "trouble connecting")
}

func TestAskHandler_MissingQuestion(t *testing.T) {
	h := coach.NewHandlers(coach.NewClient(coach.Config{APIKey: "k"}))

	req := httptest.NewRequest(http.MethodPost, "/api/coach/ask", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Ask(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
