// Package staking converts a betting edge into a bounded unit stake via
// fractional Kelly with guard-rail multipliers. The pipeline is
// evaluate → modify → clamp → emit, and every modifier applied is recorded
// on the recommendation so a stake can be audited after the fact.
package staking

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-edge/internal/models"
)

// Stop reasons attached to zero-stake recommendations
const (
	ReasonInsufficientData = "insufficient data"
	ReasonEdgeBelowMinimum = "edge below minimum threshold"
	ReasonBelowMinimumUnit = "clamped stake below minimum unit"
)

// Tier is one disagreement-penalty band. MaxRatio <= 0 marks the
// unbounded final tier.
type Tier struct {
	MaxRatio   float64 `mapstructure:"max_ratio"`
	Multiplier float64 `mapstructure:"multiplier" validate:"required,gt=0,lte=1"`
}

// Config holds the staking thresholds and multipliers. Tiers and
// multipliers are configuration, not code.
type Config struct {
	KellyFraction        float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MinEdge              float64 `mapstructure:"min_edge" validate:"gte=0"`
	DisagreementTiers    []Tier  `mapstructure:"disagreement_tiers" validate:"required,min=1,dive"`
	NoDataMultiplier     float64 `mapstructure:"no_data_multiplier" validate:"required,gt=0,lte=1"`
	ActivityThreshold    float64 `mapstructure:"activity_threshold" validate:"gte=0,lte=100"`
	MaxActivityReduction float64 `mapstructure:"max_activity_reduction" validate:"gte=0,lt=1"`

	// UnitScale converts a bankroll fraction to units; 100 means one
	// unit is 1% of bankroll.
	UnitScale float64 `mapstructure:"unit_scale" validate:"required,gt=0"`
	MinUnit   float64 `mapstructure:"min_unit" validate:"required,gt=0"`
	MaxUnit   float64 `mapstructure:"max_unit" validate:"required,gt=0"`
	Increment float64 `mapstructure:"increment" validate:"required,gt=0"`
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		KellyFraction: 0.25,
		MinEdge:       0.03,
		DisagreementTiers: []Tier{
			{MaxRatio: 1.5, Multiplier: 1.0},
			{MaxRatio: 2.0, Multiplier: 0.75},
			{MaxRatio: 3.0, Multiplier: 0.5},
			{MaxRatio: 0, Multiplier: 0.25},
		},
		NoDataMultiplier:     0.5,
		ActivityThreshold:    60,
		MaxActivityReduction: 0.5,
		UnitScale:            100,
		MinUnit:              0.5,
		MaxUnit:              5.0,
		Increment:            0.5,
	}
}

// Inputs are the frozen values a stake is computed from. Recomputing with
// identical inputs yields a bit-identical stake.
type Inputs struct {
	Probability float64
	Odds        float64
	Implied     float64
	Edge        float64
	HasDataA    bool
	HasDataB    bool
	ActivityA   float64
	ActivityB   float64
}

// Outcome is the sized result with its modifier trail
type Outcome struct {
	Stake     float64
	Modifiers []models.StakeModifier
	Reason    string
}

// Engine sizes stakes
type Engine struct {
	cfg Config
	log *logrus.Entry
}

// NewEngine creates a staking engine
func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{cfg: cfg, log: logger.WithField("component", "staking")}
}

// Recommend runs the staking pipeline. A zero stake with a reason is the
// "no bet" outcome; it is never an error.
func (e *Engine) Recommend(in Inputs) Outcome {
	// Hard stop: with no data behind either player the guard-rail math
	// would still produce a market-derived stake, and bets with no
	// underlying data perform catastrophically worse than data-backed
	// ones.
	if !in.HasDataA && !in.HasDataB {
		return Outcome{Reason: ReasonInsufficientData}
	}
	if in.Edge < e.cfg.MinEdge || in.Edge <= 0 || in.Odds <= 1 || in.Implied <= 0 {
		return Outcome{Reason: ReasonEdgeBelowMinimum}
	}

	base := in.Edge / (in.Odds - 1)
	stake := base
	var modifiers []models.StakeModifier

	apply := func(name string, multiplier float64, detail string) {
		stake *= multiplier
		modifiers = append(modifiers, models.StakeModifier{Name: name, Multiplier: multiplier, Detail: detail})
	}

	apply("fractional_kelly", e.cfg.KellyFraction, "")

	ratio := in.Probability / in.Implied
	apply("disagreement", e.tierMultiplier(ratio), fmt.Sprintf("ratio=%.3f", ratio))

	if !in.HasDataA || !in.HasDataB {
		apply("no_data", e.cfg.NoDataMultiplier, "one player lacks sufficient history")
	}

	if m, low := e.activityMultiplier(in.ActivityA, in.ActivityB); m < 1 {
		apply("activity", m, fmt.Sprintf("activity=%.0f", low))
	}

	units := e.roundToIncrement(stake * e.cfg.UnitScale)
	if units > e.cfg.MaxUnit {
		units = e.cfg.MaxUnit
	}
	if units < e.cfg.MinUnit {
		return Outcome{Modifiers: modifiers, Reason: ReasonBelowMinimumUnit}
	}

	return Outcome{Stake: units, Modifiers: modifiers}
}

// MinUnit returns the smallest emittable stake. Contrarian entries that
// bypass Kelly sizing (the model disfavors them by construction) are
// placed flat at this floor.
func (e *Engine) MinUnit() float64 {
	return e.cfg.MinUnit
}

// tierBoundaryTolerance keeps ratios that land on a tier boundary (within
// float error, e.g. 0.30/0.10) in the more conservative tier
const tierBoundaryTolerance = 1e-9

// tierMultiplier resolves the disagreement penalty for a model/market
// probability ratio. Whenever the ratio reaches the last bounded tier's
// edge the unbounded tier's multiplier applies regardless of other inputs.
func (e *Engine) tierMultiplier(ratio float64) float64 {
	for _, t := range e.cfg.DisagreementTiers {
		if t.MaxRatio <= 0 || ratio < t.MaxRatio-tierBoundaryTolerance {
			return t.Multiplier
		}
	}
	// Misconfigured table without an unbounded tier: take the last one.
	return e.cfg.DisagreementTiers[len(e.cfg.DisagreementTiers)-1].Multiplier
}

// activityMultiplier scales the stake down proportionally to how inactive
// the less active player is, capped at the configured maximum reduction
func (e *Engine) activityMultiplier(a, b float64) (float64, float64) {
	low := a
	if b < low {
		low = b
	}
	if e.cfg.ActivityThreshold <= 0 || low >= e.cfg.ActivityThreshold {
		return 1, low
	}
	reduction := e.cfg.MaxActivityReduction * (e.cfg.ActivityThreshold - low) / e.cfg.ActivityThreshold
	if reduction > e.cfg.MaxActivityReduction {
		reduction = e.cfg.MaxActivityReduction
	}
	return 1 - reduction, low
}

// roundToIncrement rounds a unit stake to the nearest configured increment
// using decimal arithmetic so the result is exact and reproducible
func (e *Engine) roundToIncrement(units float64) float64 {
	inc := decimal.NewFromFloat(e.cfg.Increment)
	if inc.IsZero() {
		return units
	}
	rounded := decimal.NewFromFloat(units).Div(inc).Round(0).Mul(inc)
	out, _ := rounded.Float64()
	return out
}
