package factors

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// History is a temporally-bounded view over historical matches. The
// constructor discards everything on or after the as-of date, so a factor
// reading through a History cannot leak future results into a historical
// evaluation. Matches are held newest-first with a deterministic tiebreak
// so repeated snapshots over the same inputs are bit-identical.
type History struct {
	asOf    time.Time
	matches []*models.HistoricalMatch
}

// NewHistory builds a view containing only matches strictly before asOf
func NewHistory(asOf time.Time, matches []*models.HistoricalMatch) *History {
	filtered := make([]*models.HistoricalMatch, 0, len(matches))
	for _, m := range matches {
		if m == nil || !m.Date.Before(asOf) {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].ID.String() < filtered[j].ID.String()
	})
	return &History{asOf: asOf, matches: filtered}
}

// AsOf returns the exclusive upper date bound of the view
func (h *History) AsOf() time.Time {
	return h.asOf
}

// Len returns the number of matches in the view
func (h *History) Len() int {
	return len(h.matches)
}

// PlayerMatches returns the player's matches newest-first, up to limit.
// A non-positive limit returns all of them.
func (h *History) PlayerMatches(playerID uuid.UUID, limit int) []*models.HistoricalMatch {
	var out []*models.HistoricalMatch
	for _, m := range h.matches {
		if !m.Involves(playerID) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// PlayerMatchesSince returns the player's matches dated on or after since,
// newest-first
func (h *History) PlayerMatchesSince(playerID uuid.UUID, since time.Time) []*models.HistoricalMatch {
	var out []*models.HistoricalMatch
	for _, m := range h.matches {
		if m.Date.Before(since) {
			break
		}
		if m.Involves(playerID) {
			out = append(out, m)
		}
	}
	return out
}

// PlayerSurfaceMatches returns the player's matches on a surface dated on
// or after since, newest-first. A zero since returns the full career.
func (h *History) PlayerSurfaceMatches(playerID uuid.UUID, surface models.Surface, since time.Time) []*models.HistoricalMatch {
	var out []*models.HistoricalMatch
	for _, m := range h.matches {
		if !since.IsZero() && m.Date.Before(since) {
			break
		}
		if m.Surface == surface && m.Involves(playerID) {
			out = append(out, m)
		}
	}
	return out
}

// HeadToHead returns all prior meetings between the pair, newest-first
func (h *History) HeadToHead(a, b uuid.UUID) []*models.HistoricalMatch {
	var out []*models.HistoricalMatch
	for _, m := range h.matches {
		if m.Involves(a) && m.Involves(b) {
			out = append(out, m)
		}
	}
	return out
}

// LastMatch returns the player's most recent match, nil when none exists
func (h *History) LastMatch(playerID uuid.UUID) *models.HistoricalMatch {
	for _, m := range h.matches {
		if m.Involves(playerID) {
			return m
		}
	}
	return nil
}

// RankAsOf returns the rank the player held at their most recent match
// before the as-of date. Using the recorded match-time rank rather than
// the player's present-day rank is what keeps backtests honest.
func (h *History) RankAsOf(playerID uuid.UUID) (int, bool) {
	for _, m := range h.matches {
		if !m.Involves(playerID) {
			continue
		}
		if rank := m.RankOf(playerID); rank > 0 {
			return rank, true
		}
	}
	return 0, false
}
