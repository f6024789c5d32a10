// Package datasource defines the collaborator contracts the analysis core
// consumes: a historical data source and an odds source. The core itself
// is a computation boundary; acquisition, name resolution and scheduling
// of the upstream feeds live with the providers behind these interfaces.
package datasource

import (
	"context"
	"time"

	"github.com/yourusername/court-edge/internal/models"
)

// MatchPair describes one upcoming match to analyze
type MatchPair struct {
	Key            models.MatchKey `json:"key"`
	PlayerA        *models.Player  `json:"player_a"`
	PlayerB        *models.Player  `json:"player_b"`
	Surface        models.Surface  `json:"surface"`
	ScheduledStart time.Time       `json:"scheduled_start"`
}

// MarketPrices holds one decimal price per side of a match-pair
type MarketPrices struct {
	OddsA     float64   `json:"odds_a"`
	OddsB     float64   `json:"odds_b"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoricalDataSource yields immutable match records and player records.
// MatchesBefore must return only matches dated strictly before asOf; the
// factor library filters again defensively.
type HistoricalDataSource interface {
	MatchesBefore(ctx context.Context, asOf time.Time) ([]*models.HistoricalMatch, error)
	UpcomingPairs(ctx context.Context) ([]MatchPair, error)
	Name() string
}

// OddsSource yields a decimal price for each side of an upcoming
// match-pair, with a timestamp
type OddsSource interface {
	Prices(ctx context.Context, pair MatchPair) (*MarketPrices, error)
	Name() string
}
