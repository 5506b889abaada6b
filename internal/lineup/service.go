package lineup

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/fantasycoach/coach-engine/internal/metrics"
	"github.com/fantasycoach/coach-engine/internal/model"
	"github.com/fantasycoach/coach-engine/internal/session"
)

// FantasyDataProvider is the narrow interface over the external fantasy-data
// API. Methods return the provider's opaque nested documents; the resolvers
// in this package own the extraction.
type FantasyDataProvider interface {
	GetLeagueSettings(ctx context.Context, accessToken, leagueKey string) (Document, error)
	GetRosterPositions(ctx context.Context, accessToken, gameKey string) (Document, error)
	GetStatCategories(ctx context.Context, accessToken, gameKey string) (Document, error)
}

// SessionLookup resolves a session ID to an OAuth token.
type SessionLookup interface {
	Get(ctx context.Context, id string) (*session.Token, error)
}

// LineupReviewer is the optional LLM post-processor for a computed lineup.
// It sends the payload with the prompt and decodes the model's JSON object
// into out.
type LineupReviewer interface {
	ReviewLineup(ctx context.Context, payload any, prompt string, out any) error
}

// Review is the shape the advice model is asked to return. Fields mirror the
// response envelope.
type Review struct {
	Lineup       []model.LineupEntry    `json:"lineup_optimizado"`
	Changes      []model.Recommendation `json:"cambios_sugeridos"`
	Explanations []model.Explanation    `json:"explicaciones"`
}

const reviewPrompt = `Analiza los siguientes datos de jugadores de fantasy football y ` +
	`proporciona recomendaciones de lineup optimizado. Devuelve una respuesta en formato ` +
	`JSON con las siguientes propiedades: lineup_optimizado (array de jugadores recomendados ` +
	`para iniciar), cambios_sugeridos (array de cambios recomendados), y explicaciones ` +
	`(array de explicaciones detalladas para cada decision).`

// Service runs the optimize pipeline: normalize, project, analyze, assign,
// explain. The sessions/fantasy/reviewer collaborators are optional; pass nil
// to disable league enrichment or the LLM pass.
type Service struct {
	projections ProjectionSource
	matchups    MatchupAnalyzer
	sessions    SessionLookup
	fantasy     FantasyDataProvider
	reviewer    LineupReviewer

	enrichTimeout time.Duration
	reviewTimeout time.Duration
}

// NewService creates a lineup service.
func NewService(projections ProjectionSource, matchups MatchupAnalyzer,
	sessions SessionLookup, fantasy FantasyDataProvider, reviewer LineupReviewer) *Service {
	return &Service{
		projections:   projections,
		matchups:      matchups,
		sessions:      sessions,
		fantasy:       fantasy,
		reviewer:      reviewer,
		enrichTimeout: 5 * time.Second,
		reviewTimeout: 10 * time.Second,
	}
}

// Optimize runs the full pipeline for one request. It never fails: every
// enrichment error degrades to defaults and every per-player error degrades
// to that player's safe default.
func (s *Service) Optimize(ctx context.Context, req OptimizeRequest) OptimizeResponse {
	settings, slots := s.leagueContext(ctx, req.SessionID, req.LeagueKey)

	players := NormalizeRoster(req.Roster)
	for i := range players {
		proj := sanitizeProjection(s.projections.Project(players[i], settings), settings.ScoringType)
		players[i].Projection = &proj

		matchup := sanitizeMatchup(s.matchups.Analyze(players[i]))
		players[i].Matchup = &matchup
	}

	starters, bench := AssignLineup(players, slots)
	changes := BuildRecommendations(starters, bench)
	explanations := BuildExplanations(starters)

	for _, c := range changes {
		metrics.Recommendations.WithLabelValues(c.Action).Inc()
	}

	resp := OptimizeResponse{
		Success:        true,
		Lineup:         lineupEntries(starters),
		Changes:        changes,
		Explanations:   explanations,
		RosterCount:    len(players),
		OptimizedCount: len(starters),
	}
	if resp.Changes == nil {
		resp.Changes = []model.Recommendation{}
	}
	if resp.Explanations == nil {
		resp.Explanations = []model.Explanation{}
	}

	s.applyReview(ctx, players, &resp)
	return resp
}

// leagueContext resolves scoring settings and roster slots for the request's
// league. Any failure along the way (missing session, provider error,
// unparseable document) degrades to default scoring and no slot constraints.
func (s *Service) leagueContext(ctx context.Context, sessionID, leagueKey string) (model.ScoringSettings, []model.RosterSlot) {
	settings := model.DefaultScoringSettings()
	if s.fantasy == nil || s.sessions == nil || sessionID == "" || leagueKey == "" {
		return settings, nil
	}

	token, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		slog.Warn("session lookup failed, using default scoring", "session_id", sessionID, "err", err)
		metrics.EnrichmentFallbacks.WithLabelValues("session").Inc()
		return settings, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	gameKey := gameKeyOf(leagueKey)

	settingsDoc, err := s.fantasy.GetLeagueSettings(ctx, token.AccessToken, leagueKey)
	if err != nil {
		slog.Warn("league settings fetch failed", "league_key", leagueKey, "err", err)
		metrics.EnrichmentFallbacks.WithLabelValues("settings").Inc()
		settingsDoc = nil
	}

	statsDoc, err := s.fantasy.GetStatCategories(ctx, token.AccessToken, gameKey)
	if err != nil {
		slog.Warn("stat categories fetch failed", "game_key", gameKey, "err", err)
		metrics.EnrichmentFallbacks.WithLabelValues("stats").Inc()
		statsDoc = nil
	}

	positionsDoc, err := s.fantasy.GetRosterPositions(ctx, token.AccessToken, gameKey)
	if err != nil {
		slog.Warn("roster positions fetch failed", "game_key", gameKey, "err", err)
		metrics.EnrichmentFallbacks.WithLabelValues("positions").Inc()
		positionsDoc = nil
	}

	return ResolveScoringSettings(settingsDoc, statsDoc), ResolveRosterSlots(positionsDoc)
}

// applyReview runs the optional LLM pass over the heuristic result. On any
// error, timeout, or empty answer the heuristic result stands unchanged.
func (s *Service) applyReview(ctx context.Context, players []model.Player, resp *OptimizeResponse) {
	if s.reviewer == nil {
		metrics.LLMReviews.WithLabelValues("skipped").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.reviewTimeout)
	defer cancel()

	payload := map[string]any{
		"players":           players,
		"lineup_optimizado": resp.Lineup,
		"cambios_sugeridos": resp.Changes,
		"explicaciones":     resp.Explanations,
	}

	var review Review
	if err := s.reviewer.ReviewLineup(ctx, payload, reviewPrompt, &review); err != nil {
		slog.Warn("lineup review failed, keeping heuristic result", "err", err)
		metrics.LLMReviews.WithLabelValues("error").Inc()
		return
	}
	if len(review.Lineup) == 0 {
		metrics.LLMReviews.WithLabelValues("error").Inc()
		return
	}

	metrics.LLMReviews.WithLabelValues("ok").Inc()
	resp.Lineup = review.Lineup
	if review.Changes != nil {
		resp.Changes = review.Changes
	}
	if review.Explanations != nil {
		resp.Explanations = review.Explanations
	}
	resp.OptimizedCount = len(resp.Lineup)
}

// lineupEntries formats the chosen starters for the response envelope.
func lineupEntries(starters []model.Player) []model.LineupEntry {
	entries := make([]model.LineupEntry, 0, len(starters))
	for i := range starters {
		p := &starters[i]
		entry := model.LineupEntry{
			PlayerID:       p.ID,
			PlayerName:     p.Name,
			Position:       p.EffectivePosition(),
			LineupPosition: p.OptimizedPosition,
		}
		if p.Projection != nil {
			entry.ProjectedPoints = fmt.Sprintf("%.1f", p.Projection.Points)
			entry.Confidence = int(math.Round(p.Projection.Confidence))
			entry.ScoringType = p.Projection.ScoringType
		}
		entries = append(entries, entry)
	}
	return entries
}

// gameKeyOf derives the game key from a "{game}.l.{id}" league key.
func gameKeyOf(leagueKey string) string {
	if i := strings.Index(leagueKey, ".l."); i > 0 {
		return leagueKey[:i]
	}
	return leagueKey
}
