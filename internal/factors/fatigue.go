package factors

import (
	"math"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// FatigueFactor scores freshness from rest days since the last match and
// the workload carried in a trailing window. Around three rest days is
// optimal; shorter means tired legs, much longer means rust.
type FatigueFactor struct {
	cfg Config
}

// NewFatigueFactor creates a fatigue factor
func NewFatigueFactor(cfg Config) *FatigueFactor {
	return &FatigueFactor{cfg: cfg}
}

// Name returns the factor name
func (f *FatigueFactor) Name() string {
	return NameFatigue
}

// Evaluate compares the freshness of both players
func (f *FatigueFactor) Evaluate(in Input) models.FactorResult {
	scoreA, nA := f.freshness(in.PlayerA.ID, in.History)
	scoreB, nB := f.freshness(in.PlayerB.ID, in.History)

	return models.FactorResult{
		Advantage:  clampAdvantage(scoreA - scoreB),
		HasData:    nA > 0 || nB > 0,
		SampleSize: nA + nB,
	}
}

// freshness returns a [0, 1] score and the trailing-window sample size
func (f *FatigueFactor) freshness(playerID uuid.UUID, h *History) (float64, int) {
	last := h.LastMatch(playerID)
	if last == nil {
		// Never seen before the as-of date: neutral, contributes nothing.
		return 0.5, 0
	}

	restDays := int(h.AsOf().Sub(last.Date).Hours() / 24)
	score := f.restScore(restDays)

	windowStart := h.AsOf().AddDate(0, 0, -f.cfg.WorkloadDays)
	recent := h.PlayerMatchesSince(playerID, windowStart)

	hours := 0.0
	for _, m := range recent {
		if m.DurationMinutes > 0 {
			hours += float64(m.DurationMinutes) / 60
		} else if m.Sets > 0 {
			// Missing duration: approximate 40 minutes per set.
			hours += float64(m.Sets) * 40 / 60
		}
	}
	penalty := math.Min(0.4, f.cfg.WorkloadPenalty*hours)

	return clamp01(score - penalty), len(recent)
}

// restScore peaks at the optimal rest interval and falls off on both
// sides: short rest is tiredness, long absence is rust
func (f *FatigueFactor) restScore(restDays int) float64 {
	optimal := f.cfg.OptimalRestDays
	switch {
	case restDays <= 0:
		return 0.2
	case restDays < optimal:
		return 0.55 + 0.45*float64(restDays)/float64(optimal)
	case restDays <= optimal+2:
		return 1.0
	case restDays <= 9:
		return 0.8
	case restDays <= 20:
		return 0.6
	default:
		return 0.45
	}
}
