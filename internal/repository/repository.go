package repository

import (
	"fmt"

	"github.com/yourusername/court-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Player PlayerRepository
	Match  MatchRepository
	Bet    BetRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Player: NewPostgresPlayerRepository(db),
		Match:  NewPostgresMatchRepository(db),
		Bet:    NewPostgresBetRepository(db),
	}, nil
}
