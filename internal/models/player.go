package models

import (
	"time"

	"github.com/google/uuid"
)

// Surface represents the court surface a match is played on
type Surface string

const (
	SurfaceHard   Surface = "hard"
	SurfaceClay   Surface = "clay"
	SurfaceGrass  Surface = "grass"
	SurfaceCarpet Surface = "carpet"
)

// Handedness represents a player's dominant hand
type Handedness string

const (
	HandednessRight Handedness = "R"
	HandednessLeft  Handedness = "L"
)

// Player represents a tennis player. Instances are immutable per analysis
// call; only the external data-ingestion collaborator mutates them.
type Player struct {
	ID          uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	Name        string     `db:"name" json:"name" validate:"required"`
	Country     string     `db:"country" json:"country"`
	Handedness  Handedness `db:"handedness" json:"handedness" validate:"omitempty,oneof=R L"`
	CurrentRank int        `db:"current_rank" json:"current_rank"`
	RankedAt    *time.Time `db:"ranked_at" json:"ranked_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsRanked reports whether the player holds a current ranking
func (p *Player) IsRanked() bool {
	return p.CurrentRank > 0
}
