package factors

import (
	"math"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// FormFactor scores the recency-decayed result sequence over the last N
// matches, each result scaled by the strength of the opponent beaten or
// lost to.
type FormFactor struct {
	cfg Config
}

// NewFormFactor creates a form factor
func NewFormFactor(cfg Config) *FormFactor {
	return &FormFactor{cfg: cfg}
}

// Name returns the factor name
func (f *FormFactor) Name() string {
	return NameForm
}

// Evaluate compares the decayed form of both players
func (f *FormFactor) Evaluate(in Input) models.FactorResult {
	scoreA, nA := f.playerScore(in.PlayerA.ID, in.History)
	scoreB, nB := f.playerScore(in.PlayerB.ID, in.History)

	return models.FactorResult{
		Advantage:  clampAdvantage((scoreA - scoreB) / 2),
		HasData:    nA > 0 && nB > 0,
		SampleSize: nA + nB,
	}
}

// playerScore returns a form score in [-1, 1] and the sample used
func (f *FormFactor) playerScore(playerID uuid.UUID, h *History) (float64, int) {
	matches := h.PlayerMatches(playerID, f.cfg.FormWindow)
	if len(matches) == 0 {
		return 0, 0
	}

	var weighted, totalWeight float64
	for i, m := range matches {
		w := math.Pow(f.cfg.FormDecay, float64(i))
		scale := opponentScale(m.RankOf(m.OpponentOf(playerID)))
		if m.WonBy(playerID) {
			weighted += w * scale
		} else {
			weighted -= w * scale
		}
		totalWeight += w
	}

	// opponentScale tops out at 1.5, so the ratio lives in [-1.5, 1.5]
	return clampAdvantage(weighted / totalWeight / 1.5), len(matches)
}

// opponentScale maps an opponent's rank at match time to a strength
// multiplier in [0.5, 1.5]. Beating a top player counts for more than
// beating an unranked one; an unknown rank is neutral.
func opponentScale(rank int) float64 {
	if rank <= 0 {
		return 1.0
	}
	scale := 1.5 - math.Log(float64(rank))/math.Log(1000)
	return math.Max(0.5, math.Min(1.5, scale))
}
