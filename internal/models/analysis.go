package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchKey identifies one upcoming match inside a tournament
type MatchKey struct {
	Tournament string `json:"tournament" validate:"required"`
	MatchID    string `json:"match_id" validate:"required"`
}

// SideEvaluation holds the market comparison for one selection of the pair
type SideEvaluation struct {
	PlayerID      uuid.UUID `json:"player_id"`
	Probability   float64   `json:"probability"`
	Odds          float64   `json:"odds"`
	Implied       float64   `json:"implied"`
	Edge          float64   `json:"edge"`
	ExpectedValue float64   `json:"expected_value"`
}

// AnalysisResult is the full output of one analysis call: both-sides
// calibrated probability, confidence, the factor snapshot and the market
// comparison. Ephemeral unless attached to a Bet.
type AnalysisResult struct {
	Key            MatchKey       `json:"key"`
	AsOfDate       time.Time      `json:"as_of_date"`
	ProfileName    string         `json:"profile_name"`
	ProfileVersion string         `json:"profile_version"`
	Snapshot       FactorSnapshot `json:"snapshot"`
	Confidence     float64        `json:"confidence"`
	RawProbability float64        `json:"raw_probability"`
	A              SideEvaluation `json:"a"`
	B              SideEvaluation `json:"b"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
}

// BestSide returns the side with the larger edge
func (r *AnalysisResult) BestSide() SideEvaluation {
	if r.B.Edge > r.A.Edge {
		return r.B
	}
	return r.A
}

// OpponentOf returns the evaluation of the other side of the pair
func (r *AnalysisResult) OpponentOf(playerID uuid.UUID) SideEvaluation {
	if r.A.PlayerID == playerID {
		return r.B
	}
	return r.A
}
