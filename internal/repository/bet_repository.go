package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/court-edge/internal/database"
	"github.com/yourusername/court-edge/internal/ledger"
	"github.com/yourusername/court-edge/internal/models"
)

const betColumns = `id, tournament, match_id, selection_id, opponent_id, match_date, odds, stake,
	       probability, edge, expected_value, tags, profile_name, profile_version,
	       snapshot, modifiers, status, placed_at, settled_at, outcome, profit_loss,
	       created_at, updated_at`

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// Place inserts a new bet after the conflict checks pass. An advisory
// transaction lock on the match key serializes concurrent writers; row
// locks alone cannot do this because the first bets on a match have no
// rows to lock, letting two writers pass the check and both insert.
func (b *PostgresBetRepository) Place(ctx context.Context, bet *models.Bet) error {
	return b.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, matchLockKey(bet.Key())); err != nil {
			return fmt.Errorf("failed to lock match key: %w", err)
		}

		rows, err := tx.Query(ctx, `
			SELECT selection_id, tags FROM bets
			WHERE tournament = $1 AND match_id = $2 AND status = 'active'
		`, bet.Tournament, bet.MatchID)
		if err != nil {
			return fmt.Errorf("failed to query active bets: %w", err)
		}

		var existing []ledger.Entry
		for rows.Next() {
			var selection uuid.UUID
			var tags []string
			if err := rows.Scan(&selection, &tags); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan active bet: %w", err)
			}
			existing = append(existing, ledger.Entry{
				Key:       bet.Key(),
				Selection: selection,
				Fade:      containsTag(tags, string(models.TagFade)),
			})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read active bets: %w", err)
		}

		incoming := ledger.Entry{Key: bet.Key(), Selection: bet.SelectionID, Fade: bet.IsFade()}
		if err := ledger.CheckConflict(existing, incoming); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bets (id, tournament, match_id, selection_id, opponent_id, match_date,
			                  odds, stake, probability, edge, expected_value, tags,
			                  profile_name, profile_version, snapshot, modifiers, status, placed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		`,
			bet.ID, bet.Tournament, bet.MatchID, bet.SelectionID, bet.OpponentID, bet.MatchDate,
			bet.Odds, bet.Stake, bet.Probability, bet.Edge, bet.ExpectedValue, tagStrings(bet.Tags),
			bet.ProfileName, bet.ProfileVersion, bet.Snapshot, bet.Modifiers, bet.Status, bet.PlacedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bet: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a bet by ID
func (b *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := fmt.Sprintf(`SELECT %s FROM bets WHERE id = $1`, betColumns)

	bet, err := scanBet(b.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return bet, nil
}

// GetActive retrieves all unsettled bets
func (b *PostgresBetRepository) GetActive(ctx context.Context) ([]*models.Bet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE status = 'active'
		ORDER BY placed_at ASC
	`, betColumns)
	return b.queryBets(ctx, query)
}

// GetActiveByMatch retrieves the unsettled bets for one match
func (b *PostgresBetRepository) GetActiveByMatch(ctx context.Context, key models.MatchKey) ([]*models.Bet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE tournament = $1 AND match_id = $2 AND status = 'active'
		ORDER BY placed_at ASC
	`, betColumns)
	return b.queryBets(ctx, query, key.Tournament, key.MatchID)
}

// GetSettled retrieves settled bets within a date range
func (b *PostgresBetRepository) GetSettled(ctx context.Context, start, end time.Time) ([]*models.Bet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE status = 'settled' AND settled_at >= $1 AND settled_at <= $2
		ORDER BY settled_at DESC
	`, betColumns)
	return b.queryBets(ctx, query, start, end)
}

// Settle records the outcome of a bet
func (b *PostgresBetRepository) Settle(ctx context.Context, id uuid.UUID, outcome models.BetOutcome, profitLoss float64, settledAt time.Time) error {
	commandTag, err := b.db.GetPool().Exec(ctx, `
		UPDATE bets SET
			status = 'settled', outcome = $2, profit_loss = $3, settled_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, id, outcome, profitLoss, settledAt)
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (b *PostgresBetRepository) queryBets(ctx context.Context, query string, args ...interface{}) ([]*models.Bet, error) {
	rows, err := b.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBet(row rowScanner) (*models.Bet, error) {
	bet := &models.Bet{}
	var tags []string
	err := row.Scan(
		&bet.ID, &bet.Tournament, &bet.MatchID, &bet.SelectionID, &bet.OpponentID, &bet.MatchDate,
		&bet.Odds, &bet.Stake, &bet.Probability, &bet.Edge, &bet.ExpectedValue, &tags,
		&bet.ProfileName, &bet.ProfileVersion, &bet.Snapshot, &bet.Modifiers, &bet.Status,
		&bet.PlacedAt, &bet.SettledAt, &bet.Outcome, &bet.ProfitLoss, &bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	bet.Tags = make([]models.ModelTag, 0, len(tags))
	for _, t := range tags {
		bet.Tags = append(bet.Tags, models.ModelTag(t))
	}
	return bet, nil
}

func tagStrings(tags []models.ModelTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// matchLockKey derives the advisory lock key for a match. The hash is
// computed client-side so every process holding a connection to the same
// database contends on the same key. A zero byte separates the parts so
// (tournament, match) pairs cannot collide by concatenation.
func matchLockKey(key models.MatchKey) int64 {
	h := fnv.New64a()
	h.Write([]byte(key.Tournament))
	h.Write([]byte{0})
	h.Write([]byte(key.MatchID))
	return int64(h.Sum64())
}
