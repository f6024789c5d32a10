package factors

import (
	"math"

	"github.com/google/uuid"
)

// ActivityScore measures how recently and frequently a player has competed
// on a 0-100 scale. It is not a weighted factor: the staking engine uses it
// as a post-aggregation edge-reduction multiplier, standing in for an
// explicit injury-status signal when injury data is unreliable or absent.
//
// Up to 70 points come from match frequency in the trailing window, up to
// 30 from how recent the last match is. A player with no recorded match
// before the as-of date scores 0.
func ActivityScore(playerID uuid.UUID, h *History, cfg Config) float64 {
	last := h.LastMatch(playerID)
	if last == nil {
		return 0
	}

	windowStart := h.AsOf().AddDate(0, 0, -cfg.ActivityWindowDays)
	played := len(h.PlayerMatchesSince(playerID, windowStart))

	frequency := 70 * math.Min(1, float64(played)/8)

	gapDays := h.AsOf().Sub(last.Date).Hours() / 24
	recency := 30 * math.Max(0, math.Min(1, 1-(gapDays-7)/60))

	return frequency + recency
}
