package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BetStatus represents the lifecycle state of a persisted bet
type BetStatus string

const (
	BetStatusActive  BetStatus = "active"
	BetStatusSettled BetStatus = "settled"
	BetStatusVoid    BetStatus = "void"
)

// BetOutcome represents the settlement result of a bet
type BetOutcome string

const (
	BetOutcomeWon  BetOutcome = "won"
	BetOutcomeLost BetOutcome = "lost"
	BetOutcomeVoid BetOutcome = "void"
)

// Bet freezes an AnalysisResult and StakeRecommendation at placement time.
// Snapshot holds the serialized FactorSnapshot so an offline tool can
// recompute probability and stake deterministically from stored inputs.
// Invariant: at most one active bet per (tournament, match, selection) key,
// and never two active bets on opposite selections of the same match except
// the explicitly tagged fade entry.
type Bet struct {
	ID             uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Tournament     string          `db:"tournament" json:"tournament" validate:"required"`
	MatchID        string          `db:"match_id" json:"match_id" validate:"required"`
	SelectionID    uuid.UUID       `db:"selection_id" json:"selection_id" validate:"required,uuid4"`
	OpponentID     uuid.UUID       `db:"opponent_id" json:"opponent_id" validate:"required,uuid4"`
	MatchDate      time.Time       `db:"match_date" json:"match_date" validate:"required"`
	Odds           float64         `db:"odds" json:"odds" validate:"required,gt=1"`
	Stake          float64         `db:"stake" json:"stake" validate:"required,gt=0"`
	Probability    float64         `db:"probability" json:"probability" validate:"gte=0,lte=1"`
	Edge           float64         `db:"edge" json:"edge"`
	ExpectedValue  float64         `db:"expected_value" json:"expected_value"`
	Tags           []ModelTag      `db:"tags" json:"tags"`
	ProfileName    string          `db:"profile_name" json:"profile_name"`
	ProfileVersion string          `db:"profile_version" json:"profile_version"`
	Snapshot       json.RawMessage `db:"snapshot" json:"snapshot"`
	Modifiers      json.RawMessage `db:"modifiers" json:"modifiers"`
	Status         BetStatus       `db:"status" json:"status" validate:"required"`
	PlacedAt       time.Time       `db:"placed_at" json:"placed_at" validate:"required"`
	SettledAt      *time.Time      `db:"settled_at" json:"settled_at"`
	Outcome        *BetOutcome     `db:"outcome" json:"outcome"`
	ProfitLoss     *float64        `db:"profit_loss" json:"profit_loss"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Key returns the conflict-guard key of the bet
func (b *Bet) Key() MatchKey {
	return MatchKey{Tournament: b.Tournament, MatchID: b.MatchID}
}

// IsActive reports whether the bet is unsettled
func (b *Bet) IsActive() bool {
	return b.Status == BetStatusActive
}

// IsFade reports whether this bet is a sanctioned opposite-selection entry
func (b *Bet) IsFade() bool {
	for _, t := range b.Tags {
		if t == TagFade {
			return true
		}
	}
	return false
}

// SettledPnL returns realized profit/loss, zero while unsettled
func (b *Bet) SettledPnL() float64 {
	if b.Status != BetStatusSettled || b.ProfitLoss == nil {
		return 0
	}
	return *b.ProfitLoss
}

// DecodeSnapshot deserializes the frozen factor snapshot
func (b *Bet) DecodeSnapshot() (FactorSnapshot, error) {
	var snap FactorSnapshot
	if err := json.Unmarshal(b.Snapshot, &snap); err != nil {
		return FactorSnapshot{}, err
	}
	return snap, nil
}
