package factors

import (
	"time"

	"github.com/yourusername/court-edge/internal/models"
)

// Library holds the full factor set and produces FactorSnapshots
type Library struct {
	cfg     Config
	factors []Factor
}

// NewLibrary creates a library with every supported factor
func NewLibrary(cfg Config) *Library {
	return &Library{
		cfg: cfg,
		factors: []Factor{
			NewFormFactor(cfg),
			NewSurfaceFactor(cfg),
			NewRankingFactor(cfg),
			NewHeadToHeadFactor(cfg),
			NewFatigueFactor(cfg),
			NewRecentLossFactor(cfg),
			NewMomentumFactor(cfg),
		},
	}
}

// Names returns the factor names the library computes
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.factors))
	for _, f := range l.factors {
		names = append(names, f.Name())
	}
	return names
}

// Snapshot computes every factor for the pair at the as-of date. The
// matches slice may contain records on or after asOf; they are discarded
// by the History constructor before any factor sees them.
func (l *Library) Snapshot(playerA, playerB *models.Player, surface models.Surface, asOf time.Time, matches []*models.HistoricalMatch) models.FactorSnapshot {
	history := NewHistory(asOf, matches)
	in := Input{PlayerA: playerA, PlayerB: playerB, Surface: surface, History: history}

	results := make(map[string]models.FactorResult, len(l.factors))
	for _, f := range l.factors {
		results[f.Name()] = f.Evaluate(in)
	}

	sampleA := len(history.PlayerMatches(playerA.ID, 0))
	sampleB := len(history.PlayerMatches(playerB.ID, 0))

	return models.FactorSnapshot{
		PlayerAID: playerA.ID,
		PlayerBID: playerB.ID,
		Surface:   surface,
		AsOfDate:  asOf,
		Factors:   results,
		ActivityA: ActivityScore(playerA.ID, history, l.cfg),
		ActivityB: ActivityScore(playerB.ID, history, l.cfg),
		HasDataA:  sampleA >= l.cfg.MinPlayerSample,
		HasDataB:  sampleB >= l.cfg.MinPlayerSample,
		SampleA:   sampleA,
		SampleB:   sampleB,
	}
}
