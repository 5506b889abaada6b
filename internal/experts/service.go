// Package experts aggregates draft-season expert opinion (site ranks, ADP,
// community sentiment) into a single consensus score per player. The dataset
// is a static snapshot; a live aggregator would replace loadPlayers.
package experts

import (
	"math"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Player is one expert-consensus row.
type Player struct {
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	ESPNRank        int     `json:"espnRank"`
	SleeperADP      float64 `json:"sleeperADP"`
	RedditSentiment string  `json:"redditSentiment"`
	ConsensusScore  int     `json:"consensusScore"`
}

// Service serves consensus lookups over the loaded player table.
type Service struct {
	players []Player
}

// NewService creates the consensus service with the bundled dataset.
func NewService() *Service {
	return &Service{players: loadPlayers()}
}

// ConsensusScore blends site rank and ADP into a 10-100 score with a
// sentiment nudge: clamp(10, 100, round(max(10, 110 - avgRank*2.5) + bonus)).
func ConsensusScore(espnRank int, sleeperADP float64, sentiment string) int {
	avgRank := (float64(espnRank) + sleeperADP) / 2
	base := math.Max(10, 110-avgRank*2.5)

	bonus := 0.0
	switch sentiment {
	case SentimentPositive:
		bonus = 5
	case SentimentNegative:
		bonus = -5
	}

	score := math.Round(base + bonus)
	return int(math.Min(100, math.Max(10, score)))
}

// Search returns players matching the query by fuzzy name match, best match
// first. An empty query returns the full table. Scores are recomputed on
// every call so the formula is the single source of truth.
func (s *Service) Search(query string) []Player {
	scored := make([]Player, len(s.players))
	copy(scored, s.players)
	for i := range scored {
		scored[i].ConsensusScore = ConsensusScore(
			scored[i].ESPNRank, scored[i].SleeperADP, scored[i].RedditSentiment)
	}

	if query == "" {
		return scored
	}

	names := make([]string, len(scored))
	for i, p := range scored {
		names[i] = p.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	results := make([]Player, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, scored[r.OriginalIndex])
	}
	return results
}

// loadPlayers returns the bundled draft-season snapshot.
func loadPlayers() []Player {
	return []Player{
		{Name: "Justin Jefferson", Position: "WR", Team: "MIN", ESPNRank: 2, SleeperADP: 3.2, RedditSentiment: SentimentPositive},
		{Name: "Christian McCaffrey", Position: "RB", Team: "SF", ESPNRank: 1, SleeperADP: 2.1, RedditSentiment: SentimentPositive},
		{Name: "Tyreek Hill", Position: "WR", Team: "MIA", ESPNRank: 4, SleeperADP: 5.8, RedditSentiment: SentimentPositive},
		{Name: "Austin Ekeler", Position: "RB", Team: "LAC", ESPNRank: 8, SleeperADP: 9.4, RedditSentiment: SentimentNeutral},
		{Name: "Travis Kelce", Position: "TE", Team: "KC", ESPNRank: 6, SleeperADP: 7.1, RedditSentiment: SentimentPositive},
		{Name: "Patrick Mahomes", Position: "QB", Team: "KC", ESPNRank: 3, SleeperADP: 4.5, RedditSentiment: SentimentPositive},
		{Name: "Stefon Diggs", Position: "WR", Team: "BUF", ESPNRank: 7, SleeperADP: 8.2, RedditSentiment: SentimentPositive},
		{Name: "Josh Allen", Position: "QB", Team: "BUF", ESPNRank: 5, SleeperADP: 6.1, RedditSentiment: SentimentPositive},
		{Name: "Ja'Marr Chase", Position: "WR", Team: "CIN", ESPNRank: 9, SleeperADP: 10.3, RedditSentiment: SentimentPositive},
		{Name: "Nick Chubb", Position: "RB", Team: "CLE", ESPNRank: 12, SleeperADP: 11.8, RedditSentiment: SentimentNeutral},
		{Name: "Cooper Kupp", Position: "WR", Team: "LAR", ESPNRank: 15, SleeperADP: 16.2, RedditSentiment: SentimentNeutral},
		{Name: "Davante Adams", Position: "WR", Team: "LV", ESPNRank: 11, SleeperADP: 12.5, RedditSentiment: SentimentPositive},
	}
}
