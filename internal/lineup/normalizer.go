// Package lineup implements the start/sit optimization pipeline: roster
// normalization, projection and matchup synthesis, league settings
// resolution, greedy slot assignment, and recommendation generation.
package lineup

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fantasycoach/coach-engine/internal/model"
)

// Defaults substituted when a roster entry is missing identity fields.
const (
	defaultPlayerName = "Unknown Player"
	defaultPosition   = "FLEX"
)

// NormalizePlayer maps one raw roster entry into a canonical Player.
// Field precedence: player_id falls back to id, then to a generated
// placeholder; name falls back to player_name, then "Unknown Player";
// position falls back to display_position, then "FLEX".
//
// A malformed entry degrades to defaults instead of failing, so one bad
// entry never aborts optimization for the rest of the roster.
func NormalizePlayer(raw map[string]any) model.Player {
	p := model.Player{
		ID:              stringField(raw, "player_id", "id"),
		Name:            stringField(raw, "name", "player_name"),
		Position:        stringField(raw, "position", "display_position"),
		DisplayPosition: stringField(raw, "display_position"),
	}

	if p.ID == "" {
		p.ID = "player-" + uuid.NewString()[:8]
	}
	if p.Name == "" {
		p.Name = defaultPlayerName
	}
	if p.Position == "" {
		p.Position = defaultPosition
	}
	if p.DisplayPosition == "" {
		p.DisplayPosition = p.Position
	}
	return p
}

// NormalizeRoster converts the raw roster array into canonical players.
// The output always has the same length as the input: nil or malformed
// entries become default players.
func NormalizeRoster(raw []map[string]any) []model.Player {
	players := make([]model.Player, 0, len(raw))
	for _, entry := range raw {
		players = append(players, NormalizePlayer(entry))
	}
	return players
}

// stringField returns the first non-empty string value among the given keys.
// Numeric IDs (JSON numbers) are rendered as their decimal string.
func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			// JSON numbers decode as float64; IDs are whole numbers.
			return fmt.Sprintf("%.0f", val)
		}
	}
	return ""
}
