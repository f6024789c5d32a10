package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-edge/internal/models"
)

// HTTPHistorySource is the reference HistoricalDataSource implementation
// over a JSON match-history feed. The before cut is pushed to the feed,
// and the factor library re-filters defensively on top.
type HTTPHistorySource struct {
	baseURL string
	apiKey  string
	client  *RateLimitedHTTPClient
	log     *logrus.Entry
}

// NewHTTPHistorySource creates a history source for the given feed base URL
func NewHTTPHistorySource(baseURL, apiKey string, client *RateLimitedHTTPClient, logger *logrus.Logger) *HTTPHistorySource {
	if logger == nil {
		logger = logrus.New()
	}
	return &HTTPHistorySource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		log:     logger.WithField("component", "history_source"),
	}
}

// Name returns the source name
func (s *HTTPHistorySource) Name() string {
	return "http_history"
}

// MatchesBefore fetches completed matches dated strictly before asOf
func (s *HTTPHistorySource) MatchesBefore(ctx context.Context, asOf time.Time) ([]*models.HistoricalMatch, error) {
	endpoint := fmt.Sprintf("%s/matches?before=%s",
		s.baseURL, url.QueryEscape(asOf.UTC().Format(time.RFC3339)))

	var matches []*models.HistoricalMatch
	if err := s.getJSON(ctx, endpoint, &matches); err != nil {
		return nil, fmt.Errorf("failed to fetch match history: %w", err)
	}

	// The feed contract is strict-before, but a feed bug here would
	// silently poison every factor, so it is enforced again.
	filtered := matches[:0]
	for _, m := range matches {
		if m.Date.Before(asOf) {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) != len(matches) {
		s.log.WithFields(logrus.Fields{
			"dropped": len(matches) - len(filtered),
			"as_of":   asOf.Format(time.RFC3339),
		}).Warn("History feed returned matches on or after the as-of cut")
	}
	return filtered, nil
}

// UpcomingPairs fetches the upcoming match slate
func (s *HTTPHistorySource) UpcomingPairs(ctx context.Context) ([]MatchPair, error) {
	endpoint := fmt.Sprintf("%s/upcoming", s.baseURL)

	var pairs []MatchPair
	if err := s.getJSON(ctx, endpoint, &pairs); err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming pairs: %w", err)
	}
	return pairs, nil
}

func (s *HTTPHistorySource) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	headers := map[string]string{}
	if s.apiKey != "" {
		headers["X-Api-Key"] = s.apiKey
	}

	resp, err := s.client.GetWithHeaders(ctx, endpoint, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
