package lineup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasycoach/coach-engine/internal/lineup"
	"github.com/fantasycoach/coach-engine/internal/model"
	"github.com/fantasycoach/coach-engine/internal/session"
)

// fixedProjections projects each player to a fixed score by ID.
type fixedProjections struct {
	points map[string]float64
}

func (f *fixedProjections) Project(p model.Player, settings model.ScoringSettings) model.Projection {
	pts := f.points[p.ID]
	return model.Projection{
		Points: pts, Confidence: 60, Ceiling: pts + 3, Floor: pts - 3,
		ScoringType: settings.ScoringType,
	}
}

type neutralMatchups struct{}

func (neutralMatchups) Analyze(model.Player) model.MatchupInfo {
	return model.MatchupInfo{
		Difficulty:    model.DifficultyMedium,
		OpponentRank:  16,
		WeatherImpact: model.WeatherNeutral,
		InjuryStatus:  model.InjuryHealthy,
	}
}

// stubFantasy serves canned documents or a single error for every method.
type stubFantasy struct {
	settings  lineup.Document
	stats     lineup.Document
	positions lineup.Document
	err       error
}

func (s *stubFantasy) GetLeagueSettings(context.Context, string, string) (lineup.Document, error) {
	return s.settings, s.err
}

func (s *stubFantasy) GetRosterPositions(context.Context, string, string) (lineup.Document, error) {
	return s.positions, s.err
}

func (s *stubFantasy) GetStatCategories(context.Context, string, string) (lineup.Document, error) {
	return s.stats, s.err
}

type stubSessions struct {
	token *session.Token
	err   error
}

func (s *stubSessions) Get(context.Context, string) (*session.Token, error) {
	return s.token, s.err
}

type stubReviewer struct {
	review lineup.Review
	err    error
	called bool
}

func (s *stubReviewer) ReviewLineup(_ context.Context, _ any, _ string, out any) error {
	s.called = true
	if s.err != nil {
		return s.err
	}
	*out.(*lineup.Review) = s.review
	return nil
}

func roster(ids ...string) []map[string]any {
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]any{"player_id": id, "name": id, "position": "WR"})
	}
	return out
}

func TestOptimize_FallbackLineupWithoutLeagueContext(t *testing.T) {
	points := map[string]float64{}
	var ids []string
	for i := 0; i < 11; i++ {
		id := "p" + string(rune('a'+i))
		ids = append(ids, id)
		points[id] = float64(10 + i)
	}

	svc := lineup.NewService(&fixedProjections{points: points}, neutralMatchups{}, nil, nil, nil)
	resp := svc.Optimize(context.Background(), lineup.OptimizeRequest{Roster: roster(ids...)})

	require.True(t, resp.Success)
	assert.Equal(t, 11, resp.RosterCount)
	assert.Equal(t, 9, resp.OptimizedCount)
	assert.Len(t, resp.Lineup, 9)
	assert.Len(t, resp.Explanations, 9)
	assert.NotNil(t, resp.Changes)

	// Highest projection leads the ranked lineup.
	assert.Equal(t, "pk", resp.Lineup[0].PlayerID)
	assert.Equal(t, "20.0", resp.Lineup[0].ProjectedPoints)
	assert.Equal(t, model.ScoringStandard, resp.Lineup[0].ScoringType)
}

func TestOptimize_EnrichmentFailureDegradesToDefaults(t *testing.T) {
	svc := lineup.NewService(
		&fixedProjections{points: map[string]float64{"p1": 12, "p2": 8}},
		neutralMatchups{},
		&stubSessions{token: &session.Token{AccessToken: "tok"}},
		&stubFantasy{err: errors.New("upstream down")},
		nil,
	)

	resp := svc.Optimize(context.Background(), lineup.OptimizeRequest{
		Roster:    roster("p1", "p2"),
		SessionID: "sess",
		LeagueKey: "nfl.l.123",
	})

	require.True(t, resp.Success)
	assert.Equal(t, 2, resp.OptimizedCount, "no slots resolved, top-N fallback covers the pool")
}

func TestOptimize_SessionLookupFailureDegrades(t *testing.T) {
	svc := lineup.NewService(
		&fixedProjections{points: map[string]float64{"p1": 12}},
		neutralMatchups{},
		&stubSessions{err: session.ErrNotFound},
		&stubFantasy{},
		nil,
	)

	resp := svc.Optimize(context.Background(), lineup.OptimizeRequest{
		Roster:    roster("p1"),
		SessionID: "expired",
		LeagueKey: "nfl.l.123",
	})
	require.True(t, resp.Success)
	assert.Equal(t, 1, resp.OptimizedCount)
}

func TestOptimize_SlotConstrainedFromLeagueDocs(t *testing.T) {
	positions := rosterPositionsDoc(
		map[string]any{"position": "WR", "count": float64(1), "is_starting_position": "1"},
		map[string]any{"position": "BN", "count": float64(2), "is_starting_position": "0"},
	)

	svc := lineup.NewService(
		&fixedProjections{points: map[string]float64{"p1": 12, "p2": 18, "p3": 5}},
		neutralMatchups{},
		&stubSessions{token: &session.Token{AccessToken: "tok"}},
		&stubFantasy{settings: settingsDoc("head", "1"), stats: statsDoc(), positions: positions},
		nil,
	)

	resp := svc.Optimize(context.Background(), lineup.OptimizeRequest{
		Roster:    roster("p1", "p2", "p3"),
		SessionID: "sess",
		LeagueKey: "nfl.l.123",
	})

	require.True(t, resp.Success)
	require.Equal(t, 1, resp.OptimizedCount)
	assert.Equal(t, "WR", resp.Lineup[0].LineupPosition)
	// Weakest eligible player fills the lone WR slot.
	assert.Equal(t, "p3", resp.Lineup[0].PlayerID)
}

func TestOptimize_ReviewReplacesHeuristicResult(t *testing.T) {
	reviewer := &stubReviewer{review: lineup.Review{
		Lineup: []model.LineupEntry{{PlayerID: "llm-pick", PlayerName: "LLM Pick"}},
		Changes: []model.Recommendation{
			{PlayerID: "llm-pick", Action: "start", Reason: "modelo lo prefiere"},
		},
	}}

	svc := lineup.NewService(
		&fixedProjections{points: map[string]float64{"p1": 12}},
		neutralMatchups{}, nil, nil, reviewer,
	)
	resp := svc.Optimize(context.Background(), lineup.OptimizeRequest{Roster: roster("p1")})

	require.True(t, reviewer.called)
	require.Len(t, resp.Lineup, 1)
	assert.Equal(t, "llm-pick", resp.Lineup[0].PlayerID)
	assert.Equal(t, 1, resp.OptimizedCount)
	assert.Len(t, resp.Changes, 1)
}

func TestOptimize_ReviewErrorKeepsHeuristicResult(t *testing.T) {
	reviewer := &stubReviewer{err: errors.New("model timeout")}

	svc := lineup.NewService(
		&fixedProjections{points: map[string]float64{"p1": 12}},
		neutralMatchups{}, nil, nil, reviewer,
	)
	resp := svc.Optimize(context.Background(), lineup.OptimizeRequest{Roster: roster("p1")})

	require.True(t, resp.Success)
	require.Len(t, resp.Lineup, 1)
	assert.Equal(t, "p1", resp.Lineup[0].PlayerID)
}

func TestOptimize_EmptyReviewKeepsHeuristicResult(t *testing.T) {
	reviewer := &stubReviewer{} // returns a zero Review

	svc := lineup.NewService(
		&fixedProjections{points: map[string]float64{"p1": 12}},
		neutralMatchups{}, nil, nil, reviewer,
	)
	resp := svc.Optimize(context.Background(), lineup.OptimizeRequest{Roster: roster("p1")})

	require.Len(t, resp.Lineup, 1)
	assert.Equal(t, "p1", resp.Lineup[0].PlayerID)
}
