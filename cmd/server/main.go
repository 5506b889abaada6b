package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fantasycoach/coach-engine/internal/coach"
	"github.com/fantasycoach/coach-engine/internal/config"
	"github.com/fantasycoach/coach-engine/internal/experts"
	"github.com/fantasycoach/coach-engine/internal/lineup"
	"github.com/fantasycoach/coach-engine/internal/metrics"
	"github.com/fantasycoach/coach-engine/internal/session"
	"github.com/fantasycoach/coach-engine/internal/yahoo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	// --- Initialize session store ---
	var sessions session.Store
	var cleanup []func()

	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		cleanup = append(cleanup, pool.Close)
		pg := session.NewPostgresStore(pool, cfg.SessionTTL)
		if err := pg.Init(context.Background()); err != nil {
			slog.Error("session schema init failed", "err", err)
			os.Exit(1)
		}
		sessions = pg
		slog.Info("sessions backed by PostgreSQL")
	case cfg.RedisURL != "":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "err", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		cleanup = append(cleanup, func() { rdb.Close() })
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		slog.Info("sessions backed by Redis")
	default:
		slog.Warn("DATABASE_URL/REDIS_URL not set, using in-memory sessions (will not survive restarts)")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	// --- Optional upstream clients ---
	var yahooClient *yahoo.Client
	if cfg.YahooEnabled() {
		yahooClient = yahoo.NewClient(yahoo.Config{
			ClientID:     cfg.Yahoo.ClientID,
			ClientSecret: cfg.Yahoo.ClientSecret,
			RedirectURI:  cfg.Yahoo.RedirectURI,
		})
		slog.Info("Yahoo integration enabled")
	} else {
		slog.Warn("Yahoo credentials not set, league enrichment disabled")
	}

	var coachClient *coach.Client
	if cfg.GroqEnabled() {
		coachClient = coach.NewClient(coach.Config{
			APIKey:      cfg.Groq.APIKey,
			BaseURL:     cfg.Groq.BaseURL,
			AskModel:    cfg.Groq.AskModel,
			ReviewModel: cfg.Groq.ReviewModel,
		})
		slog.Info("LLM coaching enabled")
	} else {
		slog.Warn("GROQ_API_KEY not set, LLM coaching disabled")
	}

	// --- Lineup service ---
	var fantasy lineup.FantasyDataProvider
	if yahooClient != nil {
		fantasy = yahooClient
	}
	var reviewer lineup.LineupReviewer
	if coachClient != nil {
		reviewer = coachClient
	}
	seed := time.Now().UnixNano()
	lineupSvc := lineup.NewService(
		lineup.NewRandomProjectionSource(seed),
		lineup.NewRandomMatchupAnalyzer(seed),
		sessions,
		fantasy,
		reviewer,
	)

	expertsSvc := experts.NewService()

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"coach-engine"}`))
	})

	r.Get("/api/test", apiTest)

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", demoLogin(cfg.DemoPassword))

		if yahooClient != nil {
			yh := yahoo.NewHandlers(yahooClient, sessions, cfg.FrontendURL)
			r.Get("/auth/yahoo", yh.AuthURL)
			r.Get("/auth/yahoo/callback", yh.Callback)
			r.Get("/auth/yahoo/leagues", yh.Leagues)
			r.Get("/auth/yahoo/teams", yh.Teams)
			r.Get("/auth/yahoo/roster", yh.Roster)
		}

		r.Post("/lineup/optimize", lineupSvc.HandleOptimize)

		if coachClient != nil {
			ch := coach.NewHandlers(coachClient)
			r.Post("/coach/ask", ch.Ask)
		}

		eh := experts.NewHandlers(expertsSvc)
		r.Get("/expert-consensus", eh.Consensus)
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("coach-engine listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down coach-engine...")
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	fmt.Println("coach-engine stopped")
}

// apiTest is the frontend's connectivity probe.
func apiTest(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":   "Backend is working!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// demoLogin is a development-only login that trades the shared demo password
// for a static demo user and a throwaway bearer token.
func demoLogin(password string) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != password {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Invalid credentials"})
			return
		}

		email := req.Email
		if email == "" {
			email = "demo@fantasycoach.app"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user": map[string]any{
				"email":    email,
				"username": "demo",
				"id":       1,
			},
			"token": "demo-" + uuid.New().String(),
		})
	}
}
