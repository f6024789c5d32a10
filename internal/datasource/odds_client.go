package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-edge/internal/models"
)

// HTTPOddsSource is the reference OddsSource implementation over a JSON
// price feed. Prices arrive as strings and are normalized through decimal
// arithmetic before becoming float odds.
type HTTPOddsSource struct {
	baseURL string
	client  *RateLimitedHTTPClient
	log     *logrus.Entry
}

// NewHTTPOddsSource creates an odds source for the given feed base URL
func NewHTTPOddsSource(baseURL string, client *RateLimitedHTTPClient, logger *logrus.Logger) *HTTPOddsSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &HTTPOddsSource{
		baseURL: baseURL,
		client:  client,
		log:     logger.WithField("component", "odds_source"),
	}
}

// Name returns the source name
func (s *HTTPOddsSource) Name() string {
	return "http_odds"
}

type priceResponse struct {
	OddsA     string    `json:"odds_a"`
	OddsB     string    `json:"odds_b"`
	Timestamp time.Time `json:"timestamp"`
}

// Prices fetches and normalizes the decimal prices for both sides of the
// pair
func (s *HTTPOddsSource) Prices(ctx context.Context, pair MatchPair) (*MarketPrices, error) {
	endpoint := fmt.Sprintf("%s/prices?tournament=%s&match=%s",
		s.baseURL, url.QueryEscape(pair.Key.Tournament), url.QueryEscape(pair.Key.MatchID))

	resp, err := s.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var raw priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	oddsA, err := NormalizeOdds(raw.OddsA)
	if err != nil {
		return nil, fmt.Errorf("side A: %w", err)
	}
	oddsB, err := NormalizeOdds(raw.OddsB)
	if err != nil {
		return nil, fmt.Errorf("side B: %w", err)
	}

	ts := raw.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return &MarketPrices{OddsA: oddsA, OddsB: oddsB, Timestamp: ts}, nil
}

// NormalizeOdds parses a decimal odds string exactly and validates it.
// Odds at or below 1.0 are rejected here, before any implied probability
// is computed downstream.
func NormalizeOdds(raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("unparseable odds %q: %w", raw, err)
	}
	if d.Cmp(decimal.NewFromInt(1)) <= 0 {
		return 0, fmt.Errorf("odds %s: %w", d.String(), models.ErrInvalidOdds)
	}
	odds, _ := d.Round(3).Float64()
	return odds, nil
}
