package models

import (
	"time"

	"github.com/google/uuid"
)

// FactorResult is the output of a single factor for one match-pair.
// Advantage is bounded to [-1, 1]; positive values favor player A.
type FactorResult struct {
	Advantage  float64 `json:"advantage"`
	HasData    bool    `json:"has_data"`
	SampleSize int     `json:"sample_size"`
}

// FactorSnapshot captures every factor output for one match-pair at one
// as-of date. Snapshots are created fresh per analysis call and persisted
// immutably alongside a placed bet; recomputation always produces a new
// snapshot, never an in-place update.
type FactorSnapshot struct {
	PlayerAID uuid.UUID               `json:"player_a_id"`
	PlayerBID uuid.UUID               `json:"player_b_id"`
	Surface   Surface                 `json:"surface"`
	AsOfDate  time.Time               `json:"as_of_date"`
	Factors   map[string]FactorResult `json:"factors"`

	// ActivityA/B are 0-100 activity scores used by the staking engine's
	// edge-reduction modifier rather than as weighted factors.
	ActivityA float64 `json:"activity_a"`
	ActivityB float64 `json:"activity_b"`

	// HasDataA/B report whether each player carries enough history for
	// the model to stand on its own. When both are false the staking
	// engine refuses to emit a stake.
	HasDataA bool `json:"has_data_a"`
	HasDataB bool `json:"has_data_b"`

	SampleA int `json:"sample_a"`
	SampleB int `json:"sample_b"`
}

// Factor returns the named factor result, defaulting to a no-data result
// when the factor is absent from the snapshot
func (s *FactorSnapshot) Factor(name string) FactorResult {
	if r, ok := s.Factors[name]; ok {
		return r
	}
	return FactorResult{}
}
