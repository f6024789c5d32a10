package factors

import (
	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// HeadToHeadFactor scores the prior win/loss record between the pair. No
// prior meetings is an explicit no-data state with advantage 0, not a
// silently zero-confidence estimate. Meetings on the match surface get an
// extra configurable weighting.
type HeadToHeadFactor struct {
	cfg Config
}

// NewHeadToHeadFactor creates a head-to-head factor
func NewHeadToHeadFactor(cfg Config) *HeadToHeadFactor {
	return &HeadToHeadFactor{cfg: cfg}
}

// Name returns the factor name
func (f *HeadToHeadFactor) Name() string {
	return NameHeadToHead
}

// Evaluate scores the prior record between the pair
func (f *HeadToHeadFactor) Evaluate(in Input) models.FactorResult {
	meetings := in.History.HeadToHead(in.PlayerA.ID, in.PlayerB.ID)
	if len(meetings) == 0 {
		return models.FactorResult{Advantage: 0, HasData: false, SampleSize: 0}
	}

	overall := record(in.PlayerA.ID, meetings)

	var surfaceMeetings []*models.HistoricalMatch
	for _, m := range meetings {
		if m.Surface == in.Surface {
			surfaceMeetings = append(surfaceMeetings, m)
		}
	}

	advantage := overall
	if len(surfaceMeetings) > 0 {
		w := f.cfg.HeadToHeadSurfaceWeight
		advantage = (1-w)*overall + w*record(in.PlayerA.ID, surfaceMeetings)
	}

	return models.FactorResult{
		Advantage:  clampAdvantage(advantage),
		HasData:    true,
		SampleSize: len(meetings),
	}
}

// record returns (wins - losses) / meetings from player A's perspective
func record(playerA uuid.UUID, meetings []*models.HistoricalMatch) float64 {
	wins := 0
	for _, m := range meetings {
		if m.WinnerID == playerA {
			wins++
		}
	}
	losses := len(meetings) - wins
	return float64(wins-losses) / float64(len(meetings))
}
