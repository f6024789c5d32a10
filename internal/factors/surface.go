package factors

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/court-edge/internal/models"
)

// SurfaceFactor compares blended surface win rates: career rate and a
// recent-window rate, weighted per configuration. Below the minimum sample
// the advantage is still computed but flagged low-confidence.
type SurfaceFactor struct {
	cfg Config
}

// NewSurfaceFactor creates a surface factor
func NewSurfaceFactor(cfg Config) *SurfaceFactor {
	return &SurfaceFactor{cfg: cfg}
}

// Name returns the factor name
func (f *SurfaceFactor) Name() string {
	return NameSurface
}

// Evaluate compares blended surface win rates of both players
func (f *SurfaceFactor) Evaluate(in Input) models.FactorResult {
	rateA, nA := f.blendedRate(in.PlayerA.ID, in.Surface, in.History)
	rateB, nB := f.blendedRate(in.PlayerB.ID, in.Surface, in.History)

	minSample := nA
	if nB < minSample {
		minSample = nB
	}

	return models.FactorResult{
		Advantage:  clampAdvantage(rateA - rateB),
		HasData:    minSample >= f.cfg.SurfaceMinSample,
		SampleSize: nA + nB,
	}
}

// blendedRate returns the weighted career/recent surface win rate and the
// career surface sample size. Players without any surface history get a
// neutral 0.5.
func (f *SurfaceFactor) blendedRate(playerID uuid.UUID, surface models.Surface, h *History) (float64, int) {
	career := h.PlayerSurfaceMatches(playerID, surface, time.Time{})
	if len(career) == 0 {
		return 0.5, 0
	}

	recentCutoff := h.AsOf().AddDate(-f.cfg.SurfaceRecentYears, 0, 0)
	recent := h.PlayerSurfaceMatches(playerID, surface, recentCutoff)

	careerRate := winRate(playerID, career)
	if len(recent) == 0 {
		return careerRate, len(career)
	}

	blended := f.cfg.SurfaceCareerWeight*careerRate + f.cfg.SurfaceRecentWeight*winRate(playerID, recent)
	return blended, len(career)
}

func winRate(playerID uuid.UUID, matches []*models.HistoricalMatch) float64 {
	if len(matches) == 0 {
		return 0.5
	}
	wins := 0
	for _, m := range matches {
		if m.WonBy(playerID) {
			wins++
		}
	}
	return float64(wins) / float64(len(matches))
}
