package lineup

import (
	"sort"

	"github.com/fantasycoach/coach-engine/internal/model"
)

// fallbackLineupSize bounds the unconstrained lineup when no slot
// requirements could be resolved.
const fallbackLineupSize = 9

// AssignLineup fills the league's starting slots from the player pool and
// returns the chosen starters and the remaining bench.
//
// The pool is ranked descending by projected points. When no slot
// requirements are available the assignment degrades to the top
// min(9, len(pool)) players with no slot tagging. Otherwise each starting
// requirement is filled by scanning the unassigned pool from the
// lowest-ranked player upward, taking the first Count eligible players.
//
// Consuming the weakest eligible candidate first fills mandatory narrow
// slots (a single TE slot, say) with the minimum viable player and keeps the
// strongest flex-eligible players available for W/R/T slots evaluated later.
// This is a heuristic, not an optimal matching: true optimality would need
// weighted bipartite matching over the full slot-by-player compatibility
// graph.
//
// Assignment never fails. If the pool runs out before a requirement is met
// the slot stays partially filled; the deficiency is visible only by
// comparing assigned counts against requirements.
func AssignLineup(pool []model.Player, slots []model.RosterSlot) (starters, bench []model.Player) {
	ranked := make([]model.Player, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return projectedPoints(&ranked[i]) > projectedPoints(&ranked[j])
	})

	if len(slots) == 0 {
		n := min(fallbackLineupSize, len(ranked))
		return ranked[:n], ranked[n:]
	}

	assigned := make([]bool, len(ranked))

	for _, slot := range slots {
		if !slot.IsStarting {
			continue
		}
		filled := 0
		for i := len(ranked) - 1; i >= 0 && filled < slot.Count; i-- {
			if assigned[i] || !CanFillPosition(&ranked[i], slot.PositionCode) {
				continue
			}
			assigned[i] = true
			ranked[i].OptimizedPosition = slot.PositionCode
			starters = append(starters, ranked[i])
			filled++
		}
	}

	for i := range ranked {
		if !assigned[i] {
			bench = append(bench, ranked[i])
		}
	}
	return starters, bench
}

// CanFillPosition reports whether a player is eligible for the given slot
// code. Exact position match, the W/R/T and W/R flex groupings, and the
// catch-all bench slot are the only eligibilities.
func CanFillPosition(p *model.Player, positionCode string) bool {
	pos := p.EffectivePosition()
	if pos == positionCode {
		return true
	}
	switch positionCode {
	case "W/R/T":
		return pos == "WR" || pos == "RB" || pos == "TE"
	case "W/R":
		return pos == "WR" || pos == "RB"
	case "BN":
		return true
	}
	return false
}

func projectedPoints(p *model.Player) float64 {
	if p.Projection == nil {
		return 0
	}
	return p.Projection.Points
}
