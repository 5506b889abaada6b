// Package yahoo wraps the Yahoo Fantasy Sports API behind a narrow typed
// client: OAuth code exchange plus league, team, and roster reads. The API's
// deeply nested, index-keyed response shape is flattened here (or handed to
// the lineup resolvers as an opaque document) and never leaks into the core
// data model.
package yahoo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// leagueKeyRegex matches: {gameKey}.l.{leagueID}
// Example: 461.l.12345 (game keys are numeric or the literal "nfl").
var leagueKeyRegex = regexp.MustCompile(`^([a-z0-9]+)\.l\.(\d+)$`)

// teamKeyRegex matches: {gameKey}.l.{leagueID}.t.{teamID}
// Example: 461.l.12345.t.3
var teamKeyRegex = regexp.MustCompile(`^([a-z0-9]+)\.l\.(\d+)\.t\.(\d+)$`)

var (
	ErrInvalidLeagueKey = errors.New("yahoo: invalid league key format")
	ErrInvalidTeamKey   = errors.New("yahoo: invalid team key format")
)

// LeagueKey is a parsed "{game}.l.{id}" league identifier.
type LeagueKey struct {
	Key      string `json:"key"`
	GameKey  string `json:"game_key"`
	LeagueID string `json:"league_id"`
}

// TeamKey is a parsed "{game}.l.{id}.t.{n}" team identifier.
type TeamKey struct {
	Key     string `json:"key"`
	GameKey string `json:"game_key"`
	League  string `json:"league_key"`
	TeamID  string `json:"team_id"`
}

// ParseLeagueKey parses and validates a league key string.
func ParseLeagueKey(key string) (*LeagueKey, error) {
	matches := leagueKeyRegex.FindStringSubmatch(key)
	if matches == nil {
		return nil, fmt.Errorf("%w: %s (expected {game}.l.{id})", ErrInvalidLeagueKey, key)
	}
	return &LeagueKey{
		Key:      key,
		GameKey:  matches[1],
		LeagueID: matches[2],
	}, nil
}

// ParseTeamKey parses and validates a team key string.
func ParseTeamKey(key string) (*TeamKey, error) {
	matches := teamKeyRegex.FindStringSubmatch(key)
	if matches == nil {
		return nil, fmt.Errorf("%w: %s (expected {game}.l.{id}.t.{n})", ErrInvalidTeamKey, key)
	}
	return &TeamKey{
		Key:     key,
		GameKey: matches[1],
		League:  fmt.Sprintf("%s.l.%s", matches[1], matches[2]),
		TeamID:  matches[3],
	}, nil
}

// LeagueKeyOfTeam extracts the league key from a team key without full
// validation, mirroring the "{team_key} split on .t." convention.
func LeagueKeyOfTeam(teamKey string) string {
	if i := strings.Index(teamKey, ".t."); i > 0 {
		return teamKey[:i]
	}
	return teamKey
}
