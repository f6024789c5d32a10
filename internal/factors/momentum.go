package factors

import (
	"math"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// MomentumFactor grants a capped bonus for wins on the match surface
// within a short trailing window.
type MomentumFactor struct {
	cfg Config
}

// NewMomentumFactor creates a momentum factor
func NewMomentumFactor(cfg Config) *MomentumFactor {
	return &MomentumFactor{cfg: cfg}
}

// Name returns the factor name
func (f *MomentumFactor) Name() string {
	return NameMomentum
}

// Evaluate compares recent same-surface momentum of both players
func (f *MomentumFactor) Evaluate(in Input) models.FactorResult {
	bonusA, nA := f.bonus(in.PlayerA.ID, in.Surface, in.History)
	bonusB, nB := f.bonus(in.PlayerB.ID, in.Surface, in.History)

	return models.FactorResult{
		Advantage:  clampAdvantage(bonusA - bonusB),
		HasData:    nA > 0 || nB > 0,
		SampleSize: nA + nB,
	}
}

func (f *MomentumFactor) bonus(playerID uuid.UUID, surface models.Surface, h *History) (float64, int) {
	windowStart := h.AsOf().AddDate(0, 0, -f.cfg.MomentumDays)
	recent := h.PlayerSurfaceMatches(playerID, surface, windowStart)

	bonus := 0.0
	for _, m := range recent {
		if m.WonBy(playerID) {
			bonus += f.cfg.MomentumPerWin
		}
	}
	return math.Min(f.cfg.MomentumCap, bonus), len(recent)
}
