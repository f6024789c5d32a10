package factors

import (
	"github.com/yourusername/court-edge/internal/config"
)

// FromConfig maps the application factor configuration onto the library
// config
func FromConfig(c *config.FactorsConfig) Config {
	return Config{
		FormWindow:          c.FormWindow,
		FormDecay:           c.FormDecay,
		SurfaceCareerWeight: c.SurfaceCareerWeight,
		SurfaceRecentWeight: c.SurfaceRecentWeight,
		SurfaceRecentYears:  c.SurfaceRecentYears,
		SurfaceMinSample:    c.SurfaceMinSample,
		RankingSteepness:    c.RankingSteepness,

		HeadToHeadSurfaceWeight: c.H2HSurfaceWeight,

		OptimalRestDays:     c.OptimalRestDays,
		WorkloadDays:        c.WorkloadDays,
		WorkloadPenalty:     c.WorkloadPenalty,
		RecentLossDays:      c.RecentLossDays,
		RecentLossPenalty:   c.RecentLossPenalty,
		LongMatchMinutes:    c.LongMatchMinutes,
		MomentumDays:        c.MomentumDays,
		MomentumPerWin:      c.MomentumPerWin,
		MomentumCap:         c.MomentumCap,
		ActivityWindowDays:  c.ActivityWindowDays,
		MinPlayerSample:     c.MinPlayerSample,
	}
}
