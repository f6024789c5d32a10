// Package analysis combines factor advantages into a calibrated,
// market-blended win probability and derives edge and expected value
// against market odds.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-edge/internal/factors"
	"github.com/yourusername/court-edge/internal/models"
)

// probability clamp bounds; aggregation should never reach these under a
// valid weight profile
const (
	probabilityFloor   = 0.001
	probabilityCeiling = 0.999
)

// Config holds the aggregation, calibration and blending coefficients.
// Threaded explicitly into every call; never module-level state.
type Config struct {
	// Steepness is the logistic squash constant k.
	Steepness float64 `mapstructure:"steepness" validate:"required,gt=0"`

	// Shrinkage pulls the raw probability toward 0.5. With
	// AsymmetricShrinkage set it applies only above 0.5, de-inflating
	// favorites without touching underdog estimates.
	Shrinkage           float64 `mapstructure:"shrinkage" validate:"gte=0,lt=1"`
	AsymmetricShrinkage bool    `mapstructure:"asymmetric_shrinkage"`

	// ModelWeight/MarketWeight blend the calibrated probability with the
	// market-implied one; they must sum to 1.0.
	ModelWeight  float64 `mapstructure:"model_weight" validate:"gte=0,lte=1"`
	MarketWeight float64 `mapstructure:"market_weight" validate:"gte=0,lte=1"`

	// ExtremeRankAdvantage triggers the secondary ranking blend once the
	// ranking factor's advantage magnitude passes it.
	ExtremeRankAdvantage float64 `mapstructure:"extreme_rank_advantage" validate:"gte=0,lte=1"`

	// RankBlendAgree/RankBlendContradict are the factor-probability
	// shares when the remaining factors agree with or contradict the
	// ranking signal. Contradiction defers to ranking: noisy low-sample
	// factors must not drown out a clear ranking outlier.
	RankBlendAgree      float64 `mapstructure:"rank_blend_agree" validate:"gte=0,lte=1"`
	RankBlendContradict float64 `mapstructure:"rank_blend_contradict" validate:"gte=0,lte=1"`
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		Steepness:            3.0,
		Shrinkage:            0.15,
		AsymmetricShrinkage:  true,
		ModelWeight:          0.65,
		MarketWeight:         0.35,
		ExtremeRankAdvantage: 0.6,
		RankBlendAgree:       0.7,
		RankBlendContradict:  0.1,
	}
}

// Probabilities is the aggregation output before the market blend
type Probabilities struct {
	WeightedAdvantage float64
	Raw               float64
	Calibrated        float64
	RankBlended       bool
}

// Aggregator turns a factor snapshot and weight profile into a calibrated
// win probability for player A
type Aggregator struct {
	cfg Config
	log *logrus.Entry
}

// NewAggregator creates an aggregator
func NewAggregator(cfg Config, logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Aggregator{cfg: cfg, log: logger.WithField("component", "aggregator")}
}

// Aggregate computes the weighted advantage, squashes it to a raw
// probability, applies the extreme-ranking blend when warranted and
// shrinks the result toward 0.5
func (a *Aggregator) Aggregate(snap models.FactorSnapshot, profile models.WeightProfile) (Probabilities, error) {
	if err := profile.Validate(); err != nil {
		return Probabilities{}, fmt.Errorf("aggregate: %w", err)
	}

	// Sum in sorted factor order. Map iteration order is randomized and
	// float64 addition is not associative, so an unordered sum is not
	// bit-stable across recomputations of the same frozen snapshot.
	weighted := 0.0
	rankingWeight := 0.0
	for _, name := range sortedFactorNames(profile.Weights) {
		w := profile.Weights[name]
		weighted += snap.Factor(name).Advantage * w
		if name == factors.NameRanking {
			rankingWeight = w
		}
	}

	raw := logistic(a.cfg.Steepness * weighted)

	out := Probabilities{WeightedAdvantage: weighted, Raw: raw}

	ranking := snap.Factor(factors.NameRanking)
	if ranking.HasData && rankingWeight > 0 && math.Abs(ranking.Advantage) >= a.cfg.ExtremeRankAdvantage {
		rankOnly := logistic(a.cfg.Steepness * ranking.Advantage)
		others := weighted - ranking.Advantage*rankingWeight
		factorShare := a.cfg.RankBlendAgree
		if others*ranking.Advantage < 0 {
			factorShare = a.cfg.RankBlendContradict
		}
		out.Raw = factorShare*raw + (1-factorShare)*rankOnly
		out.RankBlended = true
	}

	out.Calibrated = a.calibrate(out.Raw)
	return out, nil
}

// Blend mixes the calibrated probability with the market-implied one and
// clamps to a safe interior bound. A clamp firing means the coefficients
// are wrong somewhere, so it is logged for investigation.
func (a *Aggregator) Blend(calibrated, implied float64) float64 {
	p := a.cfg.ModelWeight*calibrated + a.cfg.MarketWeight*implied
	if p < probabilityFloor || p > probabilityCeiling {
		a.log.WithFields(logrus.Fields{
			"probability": p,
			"calibrated":  calibrated,
			"implied":     implied,
		}).Warn("Blended probability outside interior bounds, clamping")
		p = math.Max(probabilityFloor, math.Min(probabilityCeiling, p))
	}
	return p
}

// Confidence is the weight-mass of factors that had data behind them
func (a *Aggregator) Confidence(snap models.FactorSnapshot, profile models.WeightProfile) float64 {
	confidence := 0.0
	for _, name := range sortedFactorNames(profile.Weights) {
		if snap.Factor(name).HasData {
			confidence += profile.Weights[name]
		}
	}
	return confidence
}

func sortedFactorNames(weights map[string]float64) []string {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// calibrate shrinks a probability toward 0.5. The result always lies
// between the raw probability and 0.5, never past it.
func (a *Aggregator) calibrate(raw float64) float64 {
	if a.cfg.Shrinkage <= 0 {
		return raw
	}
	if a.cfg.AsymmetricShrinkage && raw <= 0.5 {
		return raw
	}
	return 0.5 + (raw-0.5)*(1-a.cfg.Shrinkage)
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
