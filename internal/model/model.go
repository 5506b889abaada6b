// Package model defines the core domain types shared across the coach engine.
// Everything here lives for the duration of a single optimize call — there is
// no cross-request identity or caching.
package model

// Scoring type labels carried on projections and league settings.
const (
	ScoringStandard = "standard"
	ScoringPPR      = "ppr"
	ScoringHalfPPR  = "half-ppr"
)

// Matchup difficulty tags.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Weather impact flags.
const (
	WeatherNegative = "Negative"
	WeatherNeutral  = "Neutral"
)

// Injury status tags.
const (
	InjuryHealthy      = "Healthy"
	InjuryQuestionable = "Questionable"
	InjuryDoubtful     = "Doubtful"
)

// Player is one roster entry in canonical form. Identity fields are set once
// by the normalizer and never change; projection and matchup data are attached
// as the optimize pipeline proceeds.
type Player struct {
	ID              string `json:"player_id"`
	Name            string `json:"name"`
	Position        string `json:"position"`         // single native code, e.g. "RB"
	DisplayPosition string `json:"display_position"` // may equal Position or be a flex-eligible label

	Projection *Projection  `json:"projection,omitempty"`
	Matchup    *MatchupInfo `json:"matchup,omitempty"`

	// OptimizedPosition is the slot code this player was assigned to by the
	// lineup assigner. Empty for bench players.
	OptimizedPosition string `json:"optimized_position,omitempty"`
}

// EffectivePosition is the position code used for slot eligibility:
// DisplayPosition when present, otherwise the native Position.
func (p *Player) EffectivePosition() string {
	if p.DisplayPosition != "" {
		return p.DisplayPosition
	}
	return p.Position
}

// Projection is a synthesized weekly point estimate for one player.
// Invariant: 0 <= Floor <= Points <= Ceiling.
type Projection struct {
	Points      float64 `json:"points"`
	Confidence  float64 `json:"confidence"` // 0-100
	Ceiling     float64 `json:"ceiling"`
	Floor       float64 `json:"floor"`
	ScoringType string  `json:"scoring_type"`
}

// MatchupInfo annotates a player with opponent and availability context.
type MatchupInfo struct {
	Difficulty    string `json:"difficulty"`     // Easy | Medium | Hard
	OpponentRank  int    `json:"opponent_rank"`  // 1-32
	WeatherImpact string `json:"weather_impact"` // Negative | Neutral
	InjuryStatus  string `json:"injury_status"`  // Healthy | Questionable | Doubtful
}

// RosterSlot describes one declared slot type in a league's roster shape,
// e.g. {PositionCode: "W/R/T", Count: 1, IsStarting: true}.
type RosterSlot struct {
	PositionCode string `json:"position_code"`
	Count        int    `json:"count"`
	IsStarting   bool   `json:"is_starting"`
}

// ScoringSettings holds the numeric modifiers derived from a league's
// scoring configuration.
type ScoringSettings struct {
	ScoringType   string             `json:"scoring_type"`
	PPRValue      float64            `json:"ppr_value"`
	StatModifiers map[string]float64 `json:"stat_modifiers,omitempty"`
}

// DefaultScoringSettings is the fallback when league configuration is
// unavailable or unparseable.
func DefaultScoringSettings() ScoringSettings {
	return ScoringSettings{ScoringType: ScoringStandard, PPRValue: 0}
}

// LineupEntry is one selected starter in the response envelope.
type LineupEntry struct {
	PlayerID        string `json:"player_id"`
	PlayerName      string `json:"player_name"`
	Position        string `json:"position"`
	ProjectedPoints string `json:"projected_points"` // formatted, 1 decimal
	Confidence      int    `json:"confidence"`       // 0-100
	ScoringType     string `json:"scoring_type"`
	LineupPosition  string `json:"lineup_position"`
}

// Recommendation is one start/sit change suggestion. Start recommendations
// reference the starter they displace via Replaces; the paired sit
// recommendation points back via ReplacedBy.
type Recommendation struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Action     string `json:"action"` // "start" | "sit"
	Reason     string `json:"reason"`
	Replaces   string `json:"replaces,omitempty"`
	ReplacedBy string `json:"replaced_by,omitempty"`
}

// Explanation is a plain-language justification for one selected starter.
type Explanation struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Explanation string `json:"explanation"`
}
