package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataBacked(probability, odds, implied, edge float64) Inputs {
	return Inputs{
		Probability: probability,
		Odds:        odds,
		Implied:     implied,
		Edge:        edge,
		HasDataA:    true,
		HasDataB:    true,
		ActivityA:   100,
		ActivityB:   100,
	}
}

func TestRecommendScenarioModerateFavorite(t *testing.T) {
	// Probability 0.60 at odds 2.00: base Kelly 0.10, quarter Kelly
	// 0.025 of bankroll, 2.5 units at a 100-unit scale. Ratio 1.2 stays
	// in the full-confidence tier.
	e := NewEngine(DefaultConfig(), nil)

	out := e.Recommend(dataBacked(0.60, 2.00, 0.50, 0.10))

	assert.Equal(t, 2.5, out.Stake)
	assert.Empty(t, out.Reason)

	require.Len(t, out.Modifiers, 2)
	assert.Equal(t, "fractional_kelly", out.Modifiers[0].Name)
	assert.Equal(t, 0.25, out.Modifiers[0].Multiplier)
	assert.Equal(t, "disagreement", out.Modifiers[1].Name)
	assert.Equal(t, 1.0, out.Modifiers[1].Multiplier)
}

func TestRecommendScenarioExtremeDisagreementLongshot(t *testing.T) {
	// Probability 0.30 against implied 0.10 at odds 10: the 3.0x ratio
	// lands in the extreme tier and the resulting fraction rounds below
	// the minimum unit. No stake.
	e := NewEngine(DefaultConfig(), nil)

	out := e.Recommend(dataBacked(0.30, 10.0, 0.10, 0.20))

	assert.Zero(t, out.Stake)
	assert.Equal(t, ReasonBelowMinimumUnit, out.Reason)

	var disagreement float64
	for _, m := range out.Modifiers {
		if m.Name == "disagreement" {
			disagreement = m.Multiplier
		}
	}
	assert.Equal(t, 0.25, disagreement)
}

func TestRecommendBothNoDataHardStop(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	in := dataBacked(0.60, 2.00, 0.50, 0.10)
	in.HasDataA = false
	in.HasDataB = false

	out := e.Recommend(in)

	assert.Zero(t, out.Stake)
	assert.Equal(t, ReasonInsufficientData, out.Reason)
	assert.Empty(t, out.Modifiers)
}

func TestRecommendOneSidedNoDataHalvesStake(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	in := dataBacked(0.60, 2.00, 0.50, 0.10)
	in.HasDataB = false

	out := e.Recommend(in)

	// 2.5 units halved, rounded to the nearest half unit.
	assert.Equal(t, 1.5, out.Stake)

	names := make([]string, 0, len(out.Modifiers))
	for _, m := range out.Modifiers {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "no_data")
}

func TestRecommendEdgeBelowMinimum(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	out := e.Recommend(dataBacked(0.52, 2.00, 0.50, 0.02))

	assert.Zero(t, out.Stake)
	assert.Equal(t, ReasonEdgeBelowMinimum, out.Reason)
}

func TestKellyMonotonicity(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	prev := 0.0
	for _, edge := range []float64{0.04, 0.06, 0.08, 0.10, 0.14, 0.18} {
		out := e.Recommend(dataBacked(0.5+edge, 2.00, 0.50, edge))
		assert.GreaterOrEqual(t, out.Stake, prev, "edge %v", edge)
		prev = out.Stake
	}
}

func TestTierMultiplierExtremeCap(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	for _, ratio := range []float64{3.0, 3.0000001, 4.0, 10.0, 100.0} {
		assert.LessOrEqual(t, e.tierMultiplier(ratio), 0.25, "ratio %v", ratio)
	}
}

func TestTierMultiplierBoundaryFloatNoise(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	// 0.30/0.10 is 2.9999999999999996 in float64; it must resolve to the
	// extreme tier, not sneak under the 3.0 boundary.
	assert.Equal(t, 0.25, e.tierMultiplier(0.30/0.10))
	assert.Equal(t, 1.0, e.tierMultiplier(1.2))
	assert.Equal(t, 0.75, e.tierMultiplier(1.7))
	assert.Equal(t, 0.5, e.tierMultiplier(2.5))
}

func TestActivityReductionScalesStake(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	active := e.Recommend(dataBacked(0.65, 2.00, 0.50, 0.15))

	inactive := dataBacked(0.65, 2.00, 0.50, 0.15)
	inactive.ActivityB = 0
	reduced := e.Recommend(inactive)

	assert.Less(t, reduced.Stake, active.Stake)
}

func TestRecommendClampsToMaxUnit(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	// Huge edge at short odds would exceed the maximum unit.
	out := e.Recommend(dataBacked(0.90, 1.50, 2.0 / 3.0, 0.90-2.0/3.0))

	assert.Equal(t, 5.0, out.Stake)
}

func TestRoundToIncrementExact(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	assert.Equal(t, 2.5, e.roundToIncrement(2.5))
	assert.Equal(t, 2.5, e.roundToIncrement(2.6))
	assert.Equal(t, 3.0, e.roundToIncrement(2.75))
	assert.Equal(t, 0.0, e.roundToIncrement(0.13))
}

func TestRecommendDeterministic(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	in := dataBacked(0.58, 2.10, 1/2.10, 0.58-1/2.10)

	first := e.Recommend(in)
	for i := 0; i < 10; i++ {
		again := e.Recommend(in)
		assert.Equal(t, first.Stake, again.Stake)
	}
}
