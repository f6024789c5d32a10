package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/court-edge/internal/factors"
	"github.com/yourusername/court-edge/internal/models"
)

func snapshotWith(advantages map[string]float64) models.FactorSnapshot {
	results := make(map[string]models.FactorResult, len(advantages))
	for name, adv := range advantages {
		results[name] = models.FactorResult{Advantage: adv, HasData: true, SampleSize: 10}
	}
	return models.FactorSnapshot{Factors: results, HasDataA: true, HasDataB: true}
}

func balancedProfile() models.WeightProfile {
	return models.WeightProfile{
		Name:    "balanced",
		Version: "test",
		Weights: map[string]float64{
			factors.NameForm:    0.4,
			factors.NameSurface: 0.3,
			factors.NameRanking: 0.3,
		},
	}
}

func TestAggregateNeutralInvariant(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	snap := snapshotWith(map[string]float64{
		factors.NameForm:    0,
		factors.NameSurface: 0,
		factors.NameRanking: 0,
	})

	probs, err := agg.Aggregate(snap, balancedProfile())
	require.NoError(t, err)

	assert.Equal(t, 0.5, probs.Raw)
	assert.Equal(t, 0.5, probs.Calibrated)
}

func TestAggregateSingleFactorFullAdvantage(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	snap := snapshotWith(map[string]float64{factors.NameForm: 1.0})
	profile := models.WeightProfile{
		Name:    "form-only",
		Version: "test",
		Weights: map[string]float64{factors.NameForm: 1.0},
	}

	probs, err := agg.Aggregate(snap, profile)
	require.NoError(t, err)

	assert.InDelta(t, 1/(1+math.Exp(-3)), probs.Raw, 1e-9)
}

func TestAggregateBitStableAcrossRepeatedCalls(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	// Products chosen so the sum's value depends on addition order at the
	// last ulp: 0.5*0.2, 0.2*1.0 and 0.3*1.0 summed in different orders
	// produce different bit patterns.
	snap := snapshotWith(map[string]float64{
		factors.NameForm:    0.2,
		factors.NameSurface: 1.0,
		factors.NameRanking: 1.0,
	})
	profile := models.WeightProfile{
		Name:    "balanced",
		Version: "test",
		Weights: map[string]float64{
			factors.NameForm:    0.5,
			factors.NameSurface: 0.2,
			factors.NameRanking: 0.3,
		},
	}

	first, err := agg.Aggregate(snap, profile)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		probs, err := agg.Aggregate(snap, profile)
		require.NoError(t, err)
		assert.Equal(t, first.WeightedAdvantage, probs.WeightedAdvantage)
		assert.Equal(t, first.Raw, probs.Raw)
		assert.Equal(t, first.Calibrated, probs.Calibrated)
	}
}

func TestConfidenceBitStableAcrossRepeatedCalls(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	snap := snapshotWith(map[string]float64{
		factors.NameForm:    0.2,
		factors.NameSurface: 0.1,
		factors.NameRanking: 0.4,
	})
	profile := balancedProfile()

	first := agg.Confidence(snap, profile)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, first, agg.Confidence(snap, profile))
	}
}

func TestAggregateRejectsBadProfile(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)
	snap := snapshotWith(map[string]float64{factors.NameForm: 0.5})
	profile := models.WeightProfile{
		Name:    "broken",
		Version: "test",
		Weights: map[string]float64{factors.NameForm: 0.9},
	}

	_, err := agg.Aggregate(snap, profile)
	assert.ErrorIs(t, err, models.ErrWeightProfileSum)
}

func TestCalibrationMonotonicity(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	for _, raw := range []float64{0.5, 0.6, 0.75, 0.9, 0.99} {
		calibrated := agg.calibrate(raw)
		assert.GreaterOrEqual(t, calibrated, 0.5)
		assert.LessOrEqual(t, calibrated, raw)
	}
}

func TestAsymmetricShrinkageLeavesUnderdogsAlone(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	assert.Equal(t, 0.3, agg.calibrate(0.3))
	assert.Less(t, agg.calibrate(0.8), 0.8)
}

func TestSymmetricShrinkagePullsBothSides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AsymmetricShrinkage = false
	agg := NewAggregator(cfg, nil)

	assert.Greater(t, agg.calibrate(0.3), 0.3)
	assert.Less(t, agg.calibrate(0.8), 0.8)
}

func TestExtremeRankBlendContradictionDefersToRanking(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	// Ranking strongly favors A while every other factor leans B.
	snap := snapshotWith(map[string]float64{
		factors.NameRanking: 0.9,
		factors.NameForm:    -0.4,
		factors.NameSurface: -0.4,
	})

	probs, err := agg.Aggregate(snap, balancedProfile())
	require.NoError(t, err)

	require.True(t, probs.RankBlended)
	// 90% of the mass comes from the ranking-only probability, which is
	// well above 0.5, so the blend must land above 0.5 despite the
	// contradicting factors.
	assert.Greater(t, probs.Raw, 0.5)
}

func TestExtremeRankBlendAgreement(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	snap := snapshotWith(map[string]float64{
		factors.NameRanking: 0.9,
		factors.NameForm:    0.4,
		factors.NameSurface: 0.4,
	})

	probs, err := agg.Aggregate(snap, balancedProfile())
	require.NoError(t, err)

	require.True(t, probs.RankBlended)
	assert.Greater(t, probs.Raw, 0.5)
}

func TestNoRankBlendBelowThreshold(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	snap := snapshotWith(map[string]float64{
		factors.NameRanking: 0.3,
		factors.NameForm:    0.1,
		factors.NameSurface: 0.1,
	})

	probs, err := agg.Aggregate(snap, balancedProfile())
	require.NoError(t, err)

	assert.False(t, probs.RankBlended)
}

func TestBlendWeightsModelAndMarket(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	blended := agg.Blend(0.6, 0.5)
	assert.InDelta(t, 0.65*0.6+0.35*0.5, blended, 1e-12)
}

func TestBlendClampsToInterior(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	assert.Equal(t, probabilityFloor, agg.Blend(0, 0.0001))
}

func TestImpliedProbabilityRejectsInvalidOdds(t *testing.T) {
	for _, odds := range []float64{1.0, 0.5, 0, -2} {
		_, err := ImpliedProbability(odds)
		assert.ErrorIs(t, err, models.ErrInvalidOdds)
	}
}

func TestEdgeAndExpectedValueScenario(t *testing.T) {
	// Probability 0.60 at odds 2.00: implied 0.50, edge 0.10, EV 0.20.
	implied, err := ImpliedProbability(2.0)
	require.NoError(t, err)

	assert.Equal(t, 0.5, implied)
	assert.InDelta(t, 0.10, Edge(0.60, implied), 1e-12)
	assert.InDelta(t, 0.20, ExpectedValue(0.60, 2.0), 1e-12)
}

func TestConfidenceIsDataBackedWeightMass(t *testing.T) {
	agg := NewAggregator(DefaultConfig(), nil)

	snap := snapshotWith(map[string]float64{
		factors.NameForm:    0.2,
		factors.NameSurface: 0.1,
	})
	// Ranking absent from the snapshot counts as no-data.
	confidence := agg.Confidence(snap, balancedProfile())

	assert.InDelta(t, 0.7, confidence, 1e-12)
}
