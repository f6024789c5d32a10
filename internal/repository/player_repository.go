package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/court-edge/internal/database"
	"github.com/yourusername/court-edge/internal/models"
)

// PostgresPlayerRepository implements PlayerRepository for PostgreSQL
type PostgresPlayerRepository struct {
	db *database.DB
}

// NewPostgresPlayerRepository creates a new player repository
func NewPostgresPlayerRepository(db *database.DB) PlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// Upsert inserts or updates a player record
func (r *PostgresPlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	_, err := r.db.GetPool().Exec(ctx, `
		INSERT INTO players (id, name, country, handedness, current_rank, ranked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			country = EXCLUDED.country,
			handedness = EXCLUDED.handedness,
			current_rank = EXCLUDED.current_rank,
			ranked_at = EXCLUDED.ranked_at,
			updated_at = NOW()
	`, player.ID, player.Name, player.Country, player.Handedness, player.CurrentRank, player.RankedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// GetByID retrieves a player by ID
func (r *PostgresPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, `
		SELECT id, name, country, handedness, current_rank, ranked_at, created_at, updated_at
		FROM players WHERE id = $1
	`, id).Scan(
		&player.ID, &player.Name, &player.Country, &player.Handedness,
		&player.CurrentRank, &player.RankedAt, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}
