// Package coach wraps a Groq/OpenAI-compatible chat-completions endpoint for
// free-form coaching answers and for the optional LLM pass over a computed
// lineup. Every caller of this package has a deterministic fallback: an
// upstream failure never fails a user-facing request.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Defaults for the Groq OpenAI-compatible API.
const (
	defaultBaseURL     = "https://api.groq.com/openai/v1"
	defaultAskModel    = "llama-3.1-8b-instant"
	defaultReviewModel = "llama-3.3-70b-versatile"
)

const askSystemPrompt = `You are a friendly fantasy football NFL coach. ` +
	`Always respond in the SAME LANGUAGE as the user question. ` +
	`Give advice in 2-3 sentences, casual tone, be specific and actionable.`

// Config holds the advice client settings.
type Config struct {
	APIKey      string
	BaseURL     string
	AskModel    string
	ReviewModel string
}

// Client is a typed HTTP client for the chat-completions API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	askModel    string
	reviewModel string
}

// NewClient creates an advice client.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		askModel:    cfg.AskModel,
		reviewModel: cfg.ReviewModel,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.askModel == "" {
		c.askModel = defaultAskModel
	}
	if c.reviewModel == "" {
		c.reviewModel = defaultReviewModel
	}
	return c
}

// --- Wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Ask answers a free-form coaching question.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	content, err := c.complete(ctx, chatRequest{
		Model: c.askModel,
		Messages: []chatMessage{
			{Role: "system", Content: askSystemPrompt},
			{Role: "user", Content: question},
		},
		Temperature: 0.7,
		MaxTokens:   150,
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// ReviewLineup sends a JSON-serializable payload with the given prompt,
// requests a JSON object back, and decodes it into out.
func (c *Client) ReviewLineup(ctx context.Context, payload any, prompt string, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("coach: encode payload: %w", err)
	}

	content, err := c.complete(ctx, chatRequest{
		Model: c.reviewModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt + " Datos: " + string(data)},
		},
		Temperature:    0.7,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("coach: decode review: %w", err)
	}
	return nil
}

// complete performs one chat-completions call and returns the first choice's
// content.
func (c *Client) complete(ctx context.Context, chatReq chatRequest) (string, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("coach: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("coach: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("coach: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("coach: unexpected status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("coach: decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("coach: empty response")
	}
	return chatResp.Choices[0].Message.Content, nil
}
