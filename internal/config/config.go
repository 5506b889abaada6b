// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full server configuration.
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	FrontendURL    string        `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	RedisURL       string        `envconfig:"REDIS_URL"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	DemoPassword   string        `envconfig:"DEMO_PASSWORD" default:"demo123"`

	Yahoo Yahoo
	Groq  Groq
}

// Yahoo holds the OAuth application credentials. Empty credentials disable
// the Yahoo routes.
type Yahoo struct {
	ClientID     string `envconfig:"YAHOO_CLIENT_ID"`
	ClientSecret string `envconfig:"YAHOO_CLIENT_SECRET"`
	RedirectURI  string `envconfig:"YAHOO_REDIRECT_URI"`
}

// Groq holds the LLM advice settings. An empty API key disables the coach
// routes and the lineup review pass.
type Groq struct {
	APIKey      string `envconfig:"GROQ_API_KEY"`
	BaseURL     string `envconfig:"GROQ_BASE_URL"`
	AskModel    string `envconfig:"GROQ_ASK_MODEL"`
	ReviewModel string `envconfig:"GROQ_REVIEW_MODEL"`
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}
	return &cfg, nil
}

// YahooEnabled reports whether OAuth credentials are configured.
func (c *Config) YahooEnabled() bool {
	return c.Yahoo.ClientID != "" && c.Yahoo.ClientSecret != ""
}

// GroqEnabled reports whether an LLM API key is configured.
func (c *Config) GroqEnabled() bool {
	return c.Groq.APIKey != ""
}
