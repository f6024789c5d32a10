// Package factors computes bounded advantage signals for a match-pair from
// historical data as of a given date. Every factor is a pure function over
// an immutable History view; nothing here reads the clock or mutates state,
// which is what makes batch analysis embarrassingly parallel and snapshots
// reproducible.
package factors

import (
	"math"

	"github.com/yourusername/court-edge/internal/models"
)

// Factor names used in weight profiles and snapshots
const (
	NameForm       = "form"
	NameSurface    = "surface"
	NameRanking    = "ranking"
	NameHeadToHead = "head_to_head"
	NameFatigue    = "fatigue"
	NameRecentLoss = "recent_loss"
	NameMomentum   = "momentum"
)

// Input carries everything a factor may read. The History view is already
// bounded to dates strictly before the as-of date.
type Input struct {
	PlayerA *models.Player
	PlayerB *models.Player
	Surface models.Surface
	History *History
}

// Factor computes one bounded advantage signal for a match-pair
type Factor interface {
	Name() string
	Evaluate(in Input) models.FactorResult
}

// clampAdvantage bounds an advantage to [-1, 1] and maps NaN/Inf to 0
func clampAdvantage(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// clamp01 bounds a score to [0, 1]
func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
