package lineup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fantasycoach/coach-engine/internal/model"
)

// Caps on emitted suggestions.
const (
	maxRecommendations = 5
	maxGenericSits     = 3
)

// BuildRecommendations compares the bench against the chosen starters and
// emits ranked start/sit change suggestions.
//
// For each bench player the weakest starter they outproject and could
// replace (by slot eligibility) becomes the replacement target, producing a
// paired start/sit recommendation cross-referenced by player ID. When no
// eligible improvement exists anywhere, the lowest-projected bench players
// are flagged as generic sits instead. Output is capped at five entries,
// preserving discovery order.
func BuildRecommendations(starters, bench []model.Player) []model.Recommendation {
	var recs []model.Recommendation

	for i := range bench {
		b := &bench[i]
		target := findReplaceableStarter(b, starters)
		if target == nil {
			continue
		}

		slot := target.OptimizedPosition
		if slot == "" {
			slot = target.EffectivePosition()
		}

		recs = append(recs,
			model.Recommendation{
				PlayerID:   b.ID,
				PlayerName: b.Name,
				Action:     "start",
				Reason: fmt.Sprintf("%.1f vs %.1f pts, can play %s",
					projectedPoints(b), projectedPoints(target), slot),
				Replaces: target.ID,
			},
			model.Recommendation{
				PlayerID:   target.ID,
				PlayerName: target.Name,
				Action:     "sit",
				Reason: fmt.Sprintf("%.1f pts, outperformed by %s",
					projectedPoints(target), b.Name),
				ReplacedBy: b.ID,
			},
		)
		if len(recs) >= maxRecommendations {
			break
		}
	}

	if len(recs) == 0 {
		recs = genericSits(bench)
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// findReplaceableStarter returns the weakest starter the bench player both
// outprojects and is eligible to replace, or nil.
func findReplaceableStarter(b *model.Player, starters []model.Player) *model.Player {
	var target *model.Player
	for i := range starters {
		s := &starters[i]
		slot := s.OptimizedPosition
		if slot == "" {
			slot = s.EffectivePosition()
		}
		if !CanFillPosition(b, slot) || projectedPoints(b) <= projectedPoints(s) {
			continue
		}
		if target == nil || projectedPoints(s) < projectedPoints(target) {
			target = s
		}
	}
	return target
}

// genericSits flags the lowest-projected bench players when no eligible
// swap exists.
func genericSits(bench []model.Player) []model.Recommendation {
	weakest := make([]model.Player, len(bench))
	copy(weakest, bench)
	sort.SliceStable(weakest, func(i, j int) bool {
		return projectedPoints(&weakest[i]) < projectedPoints(&weakest[j])
	})

	n := min(maxGenericSits, len(weakest))
	recs := make([]model.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		p := &weakest[i]
		recs = append(recs, model.Recommendation{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Action:     "sit",
			Reason: fmt.Sprintf("Proyección baja (%.1f pts) y matchup %s",
				projectedPoints(p), strings.ToLower(matchupDifficulty(p))),
		})
	}
	return recs
}

// BuildExplanations produces one plain-language justification per selected
// starter.
func BuildExplanations(starters []model.Player) []model.Explanation {
	explanations := make([]model.Explanation, 0, len(starters))
	for i := range starters {
		p := &starters[i]
		explanations = append(explanations, model.Explanation{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Explanation: fmt.Sprintf("%.1f pts projected, %s matchup vs rank #%d",
				projectedPoints(p), matchupDifficulty(p), opponentRank(p)),
		})
	}
	return explanations
}

func matchupDifficulty(p *model.Player) string {
	if p.Matchup == nil {
		return model.DifficultyMedium
	}
	return p.Matchup.Difficulty
}

func opponentRank(p *model.Player) int {
	if p.Matchup == nil {
		return 16
	}
	return p.Matchup.OpponentRank
}
