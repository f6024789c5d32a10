package analysis

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// ImpliedProbability converts decimal odds to the market-implied win
// probability. Odds at or below 1.0 are rejected before any computation.
func ImpliedProbability(odds float64) (float64, error) {
	if odds <= 1.0 {
		return 0, fmt.Errorf("odds %v: %w", odds, models.ErrInvalidOdds)
	}
	return 1.0 / odds, nil
}

// Edge is model probability minus market-implied probability
func Edge(probability, implied float64) float64 {
	return probability - implied
}

// ExpectedValue is the long-run average return per unit staked
func ExpectedValue(probability, odds float64) float64 {
	return probability*(odds-1) - (1 - probability)
}

// EvaluateSide builds the full market comparison for one selection
func EvaluateSide(playerID uuid.UUID, probability, odds float64) (models.SideEvaluation, error) {
	implied, err := ImpliedProbability(odds)
	if err != nil {
		return models.SideEvaluation{}, err
	}
	return models.SideEvaluation{
		PlayerID:      playerID,
		Probability:   probability,
		Odds:          odds,
		Implied:       implied,
		Edge:          Edge(probability, implied),
		ExpectedValue: ExpectedValue(probability, odds),
	}, nil
}
