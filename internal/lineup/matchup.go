package lineup

import (
	"math/rand"
	"sync"

	"github.com/fantasycoach/coach-engine/internal/model"
)

// MatchupAnalyzer annotates one player with opponent-difficulty context.
// Analysis is independent per player; a failed analysis yields the neutral
// default instead of failing the batch.
type MatchupAnalyzer interface {
	Analyze(p model.Player) model.MatchupInfo
}

// RandomMatchupAnalyzer draws matchup context at random. Placeholder for a
// real schedule/defense-ranking source, pluggable behind MatchupAnalyzer.
type RandomMatchupAnalyzer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomMatchupAnalyzer creates a seeded random matchup analyzer.
func NewRandomMatchupAnalyzer(seed int64) *RandomMatchupAnalyzer {
	return &RandomMatchupAnalyzer{rng: rand.New(rand.NewSource(seed))}
}

var (
	difficulties   = []string{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard}
	injuryStatuses = []string{model.InjuryHealthy, model.InjuryQuestionable, model.InjuryDoubtful}
)

func (a *RandomMatchupAnalyzer) Analyze(_ model.Player) model.MatchupInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	weather := model.WeatherNeutral
	if a.rng.Float64() > 0.7 {
		weather = model.WeatherNegative
	}

	return model.MatchupInfo{
		Difficulty:    difficulties[a.rng.Intn(len(difficulties))],
		OpponentRank:  a.rng.Intn(32) + 1,
		WeatherImpact: weather,
		InjuryStatus:  injuryStatuses[a.rng.Intn(len(injuryStatuses))],
	}
}

// neutralMatchup is the per-player fallback: middle difficulty, median rank,
// no weather or injury concerns.
func neutralMatchup() model.MatchupInfo {
	return model.MatchupInfo{
		Difficulty:    model.DifficultyMedium,
		OpponentRank:  16,
		WeatherImpact: model.WeatherNeutral,
		InjuryStatus:  model.InjuryHealthy,
	}
}

// sanitizeMatchup replaces out-of-domain matchup values with the neutral
// default so downstream formatting never sees garbage.
func sanitizeMatchup(m model.MatchupInfo) model.MatchupInfo {
	validDifficulty := m.Difficulty == model.DifficultyEasy ||
		m.Difficulty == model.DifficultyMedium ||
		m.Difficulty == model.DifficultyHard
	if !validDifficulty || m.OpponentRank < 1 || m.OpponentRank > 32 {
		return neutralMatchup()
	}
	if m.WeatherImpact != model.WeatherNegative && m.WeatherImpact != model.WeatherNeutral {
		m.WeatherImpact = model.WeatherNeutral
	}
	switch m.InjuryStatus {
	case model.InjuryHealthy, model.InjuryQuestionable, model.InjuryDoubtful:
	default:
		m.InjuryStatus = model.InjuryHealthy
	}
	return m
}
