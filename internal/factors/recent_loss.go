package factors

import (
	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// RecentLossFactor applies a negative adjustment when a player lost within
// the last few days, doubled when that loss was an unusually long or
// exhausting match.
type RecentLossFactor struct {
	cfg Config
}

// NewRecentLossFactor creates a recent-loss factor
func NewRecentLossFactor(cfg Config) *RecentLossFactor {
	return &RecentLossFactor{cfg: cfg}
}

// Name returns the factor name
func (f *RecentLossFactor) Name() string {
	return NameRecentLoss
}

// Evaluate compares recent-loss penalties of both players
func (f *RecentLossFactor) Evaluate(in Input) models.FactorResult {
	penaltyA, nA := f.penalty(in.PlayerA.ID, in.History)
	penaltyB, nB := f.penalty(in.PlayerB.ID, in.History)

	return models.FactorResult{
		Advantage:  clampAdvantage(penaltyA - penaltyB),
		HasData:    nA > 0 || nB > 0,
		SampleSize: nA + nB,
	}
}

// penalty returns a non-positive adjustment and the number of matches the
// player played inside the window
func (f *RecentLossFactor) penalty(playerID uuid.UUID, h *History) (float64, int) {
	windowStart := h.AsOf().AddDate(0, 0, -f.cfg.RecentLossDays)
	recent := h.PlayerMatchesSince(playerID, windowStart)
	if len(recent) == 0 {
		return 0, 0
	}

	// Most recent loss in the window drives the penalty.
	for _, m := range recent {
		if m.WonBy(playerID) {
			continue
		}
		p := -f.cfg.RecentLossPenalty
		if m.DurationMinutes >= f.cfg.LongMatchMinutes || m.Sets >= 5 {
			p *= 2
		}
		return p, len(recent)
	}
	return 0, len(recent)
}
