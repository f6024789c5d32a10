package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalMatch represents one completed match. Records are append-only
// and never mutated after import; ranks are the ranks held at match time,
// which is what keeps historical factor computation free of lookahead bias.
type HistoricalMatch struct {
	ID              uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Date            time.Time `db:"date" json:"date" validate:"required"`
	Tournament      string    `db:"tournament" json:"tournament"`
	Surface         Surface   `db:"surface" json:"surface" validate:"required,oneof=hard clay grass carpet"`
	WinnerID        uuid.UUID `db:"winner_id" json:"winner_id" validate:"required,uuid4"`
	LoserID         uuid.UUID `db:"loser_id" json:"loser_id" validate:"required,uuid4"`
	WinnerRank      int       `db:"winner_rank" json:"winner_rank"`
	LoserRank       int       `db:"loser_rank" json:"loser_rank"`
	Score           string    `db:"score" json:"score"`
	Sets            int       `db:"sets" json:"sets"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
}

// Involves reports whether the player took part in the match
func (m *HistoricalMatch) Involves(playerID uuid.UUID) bool {
	return m.WinnerID == playerID || m.LoserID == playerID
}

// WonBy reports whether the player won the match
func (m *HistoricalMatch) WonBy(playerID uuid.UUID) bool {
	return m.WinnerID == playerID
}

// OpponentOf returns the other participant, or uuid.Nil when the player
// did not take part
func (m *HistoricalMatch) OpponentOf(playerID uuid.UUID) uuid.UUID {
	switch playerID {
	case m.WinnerID:
		return m.LoserID
	case m.LoserID:
		return m.WinnerID
	default:
		return uuid.Nil
	}
}

// RankOf returns the rank the player held at match time, 0 when unranked
// or not a participant
func (m *HistoricalMatch) RankOf(playerID uuid.UUID) int {
	switch playerID {
	case m.WinnerID:
		return m.WinnerRank
	case m.LoserID:
		return m.LoserRank
	default:
		return 0
	}
}
