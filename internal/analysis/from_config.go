package analysis

import (
	"github.com/yourusername/court-edge/internal/config"
)

// FromConfig maps the application analysis configuration onto the
// aggregator config
func FromConfig(c *config.AnalysisConfig) Config {
	return Config{
		Steepness:            c.Steepness,
		Shrinkage:            c.Shrinkage,
		AsymmetricShrinkage:  c.AsymmetricShrinkage,
		ModelWeight:          c.ModelWeight,
		MarketWeight:         c.MarketWeight,
		ExtremeRankAdvantage: c.ExtremeRankAdvantage,
		RankBlendAgree:       c.RankBlendAgree,
		RankBlendContradict:  c.RankBlendContradict,
	}
}
