package lineup

import (
	"strconv"

	"github.com/fantasycoach/coach-engine/internal/model"
)

// Document is the opaque nested JSON shape returned by the fantasy-data API.
// The Yahoo response format is stringly typed and index keyed; the resolvers
// below walk it defensively and degrade to defaults on any missing or
// malformed path.
type Document = map[string]any

// The stat category whose configured value is the points-per-reception
// modifier.
const receptionsStatName = "Receptions"

// ResolveScoringSettings extracts the scoring type and PPR value from a raw
// league-settings document and a raw stat-categories document. Never fails:
// any missing or malformed path yields DefaultScoringSettings.
//
// The stat-categories document names each stat_id; the league settings
// document assigns each stat_id a value. The PPR value is the configured
// value of the stat named "Receptions".
func ResolveScoringSettings(settingsDoc, statsDoc Document) model.ScoringSettings {
	settings := model.DefaultScoringSettings()
	if settingsDoc == nil {
		return settings
	}

	if st, ok := findString(settingsDoc, "scoring_type"); ok && st != "" {
		settings.ScoringType = st
	}

	statNames := collectStatNames(statsDoc)
	statValues := collectStatValues(settingsDoc)

	for id, name := range statNames {
		if name == receptionsStatName {
			if v, ok := statValues[id]; ok && v >= 0 {
				settings.PPRValue = v
			}
			break
		}
	}
	return settings
}

// ResolveRosterSlots extracts the ordered roster slot requirements from a raw
// roster-positions document. The external shape represents each declared slot
// as {"roster_position": {"position", "count", "is_starting_position"}} where
// is_starting_position is the string "1" or "0". Malformed or missing input
// yields an empty list, which signals the assigner to fall back to the
// unconstrained top-N lineup.
//
// A league should not declare the same position code twice, but when it does
// the counts are summed into the first occurrence (keeping its order and
// starting flag).
func ResolveRosterSlots(doc Document) []model.RosterSlot {
	nodes := collectKeyed(doc, "roster_position")

	var slots []model.RosterSlot
	index := make(map[string]int)

	for _, node := range nodes {
		pos, ok := node["position"].(string)
		if !ok || pos == "" {
			continue
		}
		count, ok := toInt(node["count"])
		if !ok || count < 1 {
			continue
		}
		starting := toBoolFlag(node["is_starting_position"])

		if i, seen := index[pos]; seen {
			slots[i].Count += count
			continue
		}
		index[pos] = len(slots)
		slots = append(slots, model.RosterSlot{
			PositionCode: pos,
			Count:        count,
			IsStarting:   starting,
		})
	}
	return slots
}

// --- Document traversal helpers ---

// collectStatNames walks the tree and records stat_id -> name for every node
// carrying both fields.
func collectStatNames(doc any) map[string]string {
	names := make(map[string]string)
	walk(doc, func(node map[string]any) {
		id, okID := toStatID(node["stat_id"])
		name, okName := node["name"].(string)
		if okID && okName {
			names[id] = name
		}
	})
	return names
}

// collectStatValues walks the tree and records stat_id -> configured value
// for every node carrying both fields.
func collectStatValues(doc any) map[string]float64 {
	values := make(map[string]float64)
	walk(doc, func(node map[string]any) {
		id, okID := toStatID(node["stat_id"])
		v, okV := toFloat(node["value"])
		if okID && okV {
			values[id] = v
		}
	})
	return values
}

// collectKeyed walks the tree and returns, in encounter order, every map
// value stored under the given key. Yahoo's numerically indexed containers
// ({"count": n, "0": {...}, "1": {...}}) are visited in index order so the
// declared slot ordering survives traversal.
func collectKeyed(doc any, key string) []map[string]any {
	var out []map[string]any
	walk(doc, func(node map[string]any) {
		if child, ok := node[key].(map[string]any); ok {
			out = append(out, child)
		}
	})
	return out
}

// findString walks the tree for the first string value under the given key.
func findString(doc any, key string) (string, bool) {
	var found string
	var ok bool
	walk(doc, func(node map[string]any) {
		if ok {
			return
		}
		if s, isStr := node[key].(string); isStr {
			found, ok = s, true
		}
	})
	return found, ok
}

// walk visits every map node in the document tree, depth first. Maps that
// use numeric string keys as array indices are visited in index order;
// remaining keys follow in unspecified order.
func walk(v any, visit func(map[string]any)) {
	switch node := v.(type) {
	case map[string]any:
		visit(node)
		for _, child := range orderedValues(node) {
			walk(child, visit)
		}
	case []any:
		for _, child := range node {
			walk(child, visit)
		}
	}
}

// orderedValues returns a map's values with contiguous numeric-string keys
// ("0", "1", ...) first in ascending order, then everything else. Numeric keys
// past a gap still come through in the second pass so a degraded document
// loses ordering, not entries.
func orderedValues(node map[string]any) []any {
	indexed := make([]any, 0, len(node))
	contiguous := 0
	for ; ; contiguous++ {
		child, ok := node[strconv.Itoa(contiguous)]
		if !ok {
			break
		}
		indexed = append(indexed, child)
	}
	for key, child := range node {
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < contiguous && key == strconv.Itoa(i) {
			continue
		}
		indexed = append(indexed, child)
	}
	return indexed
}

// --- Scalar coercion helpers for stringly-typed fields ---

func toStatID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case int:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// toBoolFlag maps the API's "1"/"0" string flags (and plain numbers) to bool.
func toBoolFlag(v any) bool {
	f, ok := toFloat(v)
	return ok && f == 1
}
