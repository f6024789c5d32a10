package factors

import (
	"math"

	"github.com/yourusername/court-edge/internal/models"
)

// RankingFactor maps ranks to a non-linear skill scale and converts the
// difference to an advantage through a logistic link. Differentiation
// shrinks down the rankings: the gap between rank 2 and rank 200 is large,
// the gap between 200 and 400 is small.
//
// Ranks come from the player's most recent match record before the as-of
// date, never from present-day standings. Reading current rankings during
// a historical evaluation was the lookahead defect that inflated backtest
// accuracy, so the fallback to CurrentRank is flagged as no-data.
type RankingFactor struct {
	cfg Config
}

// NewRankingFactor creates a ranking factor
func NewRankingFactor(cfg Config) *RankingFactor {
	return &RankingFactor{cfg: cfg}
}

// Name returns the factor name
func (f *RankingFactor) Name() string {
	return NameRanking
}

// Evaluate converts the skill gap between the players into an advantage
func (f *RankingFactor) Evaluate(in Input) models.FactorResult {
	rankA, okA := rankAsOf(in.PlayerA, in.History)
	rankB, okB := rankAsOf(in.PlayerB, in.History)
	if rankA <= 0 || rankB <= 0 {
		return models.FactorResult{}
	}

	diff := rankSkill(rankA) - rankSkill(rankB)
	advantage := 2/(1+math.Exp(-f.cfg.RankingSteepness*diff)) - 1

	sample := 0
	if okA {
		sample++
	}
	if okB {
		sample++
	}

	return models.FactorResult{
		Advantage:  clampAdvantage(advantage),
		HasData:    okA && okB,
		SampleSize: sample,
	}
}

func rankAsOf(p *models.Player, h *History) (int, bool) {
	if rank, ok := h.RankAsOf(p.ID); ok {
		return rank, true
	}
	// No rank observation precedes the as-of date; the present-day rank
	// is the only signal left but it is not temporally safe.
	return p.CurrentRank, false
}

// rankSkill maps a rank to (0, 1] with diminishing differentiation at
// lower ranks
func rankSkill(rank int) float64 {
	if rank < 1 {
		rank = 1
	}
	return 1 / (1 + math.Log(float64(rank)))
}
