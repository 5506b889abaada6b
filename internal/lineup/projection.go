package lineup

import (
	"math"
	"math/rand"
	"sync"

	"github.com/fantasycoach/coach-engine/internal/model"
)

// ProjectionSource produces a weekly point projection for one player.
// Implementations must honor the invariant 0 <= Floor <= Points <= Ceiling;
// the pipeline sanitizes any output that does not.
type ProjectionSource interface {
	Project(p model.Player, settings model.ScoringSettings) model.Projection
}

// Positions that accrue a reception-volume bonus under PPR scoring.
var receivingPositions = map[string]bool{
	"WR": true,
	"RB": true,
	"TE": true,
}

// RandomProjectionSource draws projections from bounded random distributions.
// It stands in for a real statistical model: swap it out behind the
// ProjectionSource interface without touching assignment or explanation.
type RandomProjectionSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomProjectionSource creates a seeded random projection source.
func NewRandomProjectionSource(seed int64) *RandomProjectionSource {
	return &RandomProjectionSource{rng: rand.New(rand.NewSource(seed))}
}

// Project draws a base projection of 5-30 points, adds a reception-volume
// bonus for receiving positions when the league awards points per reception,
// and derives ceiling/floor by symmetric jitter.
func (s *RandomProjectionSource) Project(p model.Player, settings model.ScoringSettings) model.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := 5 + s.rng.Float64()*25

	if settings.PPRValue > 0 && receivingPositions[p.Position] {
		receptions := 2 + s.rng.Float64()*6
		points += receptions * settings.PPRValue
	}

	jitter := s.rng.Float64() * 5
	scoringType := settings.ScoringType
	if scoringType == "" {
		scoringType = model.ScoringStandard
	}

	return model.Projection{
		Points:      points,
		Confidence:  s.rng.Float64() * 100,
		Ceiling:     points + jitter,
		Floor:       math.Max(0, points-jitter),
		ScoringType: scoringType,
	}
}

// defaultProjection is the fixed safe fallback used when a source returns
// an unusable projection for a player. The batch continues.
func defaultProjection(scoringType string) model.Projection {
	if scoringType == "" {
		scoringType = model.ScoringStandard
	}
	return model.Projection{
		Points:      10,
		Confidence:  50,
		Ceiling:     15,
		Floor:       5,
		ScoringType: scoringType,
	}
}

// sanitizeProjection enforces the projection bounds invariant. Anything
// non-finite or out of order is replaced with the safe default rather than
// propagated.
func sanitizeProjection(proj model.Projection, scoringType string) model.Projection {
	if !finite(proj.Points) || !finite(proj.Ceiling) || !finite(proj.Floor) || !finite(proj.Confidence) {
		return defaultProjection(scoringType)
	}
	if proj.Points < 0 || proj.Floor < 0 || proj.Floor > proj.Points || proj.Points > proj.Ceiling {
		return defaultProjection(scoringType)
	}
	proj.Confidence = math.Max(0, math.Min(100, proj.Confidence))
	if proj.ScoringType == "" {
		proj.ScoringType = scoringType
	}
	return proj
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
