package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	Upsert(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// MatchRepository defines the interface for historical match data access.
// Records are append-only; there is no update path.
type MatchRepository interface {
	InsertBatch(ctx context.Context, matches []*models.HistoricalMatch) error
	GetBefore(ctx context.Context, asOf time.Time) ([]*models.HistoricalMatch, error)
	GetByPlayersBefore(ctx context.Context, a, b uuid.UUID, asOf time.Time) ([]*models.HistoricalMatch, error)
}

// BetRepository defines the interface for the persisted bet ledger. Place
// performs the conflict-guarded write: duplicate-key and opposing-selection
// checks plus the insert run as one atomic unit.
type BetRepository interface {
	Place(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetActive(ctx context.Context) ([]*models.Bet, error)
	GetActiveByMatch(ctx context.Context, key models.MatchKey) ([]*models.Bet, error)
	GetSettled(ctx context.Context, start, end time.Time) ([]*models.Bet, error)
	Settle(ctx context.Context, id uuid.UUID, outcome models.BetOutcome, profitLoss float64, settledAt time.Time) error
}
