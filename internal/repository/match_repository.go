package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/court-edge/internal/database"
	"github.com/yourusername/court-edge/internal/models"
)

const matchColumns = `id, date, tournament, surface, winner_id, loser_id, winner_rank, loser_rank,
	       score, sets, duration_minutes`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// InsertBatch inserts historical matches, skipping rows that already exist.
// Matches are append-only and never updated.
func (r *PostgresMatchRepository) InsertBatch(ctx context.Context, matches []*models.HistoricalMatch) error {
	batch := &pgx.Batch{}
	for _, m := range matches {
		batch.Queue(`
			INSERT INTO historical_matches (id, date, tournament, surface, winner_id, loser_id,
			                                winner_rank, loser_rank, score, sets, duration_minutes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`, m.ID, m.Date, m.Tournament, m.Surface, m.WinnerID, m.LoserID,
			m.WinnerRank, m.LoserRank, m.Score, m.Sets, m.DurationMinutes)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range matches {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert match batch: %w", err)
		}
	}
	return nil
}

// GetBefore retrieves all matches strictly before asOf, newest first
func (r *PostgresMatchRepository) GetBefore(ctx context.Context, asOf time.Time) ([]*models.HistoricalMatch, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM historical_matches
		WHERE date < $1
		ORDER BY date DESC, id ASC
	`, matchColumns)
	return r.queryMatches(ctx, query, asOf)
}

// GetByPlayersBefore retrieves matches involving either player strictly
// before asOf, newest first
func (r *PostgresMatchRepository) GetByPlayersBefore(ctx context.Context, a, b uuid.UUID, asOf time.Time) ([]*models.HistoricalMatch, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM historical_matches
		WHERE date < $1 AND (winner_id = ANY($2) OR loser_id = ANY($2))
		ORDER BY date DESC, id ASC
	`, matchColumns)
	return r.queryMatches(ctx, query, asOf, []uuid.UUID{a, b})
}

func (r *PostgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.HistoricalMatch, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.HistoricalMatch
	for rows.Next() {
		m := &models.HistoricalMatch{}
		err := rows.Scan(
			&m.ID, &m.Date, &m.Tournament, &m.Surface, &m.WinnerID, &m.LoserID,
			&m.WinnerRank, &m.LoserRank, &m.Score, &m.Sets, &m.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
