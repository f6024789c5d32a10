package staking

import (
	"github.com/yourusername/court-edge/internal/config"
)

// FromConfig maps the application staking configuration onto the engine
// config
func FromConfig(c *config.StakingConfig) Config {
	tiers := make([]Tier, len(c.Tiers))
	for i, t := range c.Tiers {
		tiers[i] = Tier{MaxRatio: t.MaxRatio, Multiplier: t.Multiplier}
	}
	return Config{
		KellyFraction:        c.KellyFraction,
		MinEdge:              c.MinEdge,
		DisagreementTiers:    tiers,
		NoDataMultiplier:     c.NoDataMultiplier,
		ActivityThreshold:    c.ActivityThreshold,
		MaxActivityReduction: c.MaxActivityReduction,
		UnitScale:            c.UnitScale,
		MinUnit:              c.MinUnit,
		MaxUnit:              c.MaxUnit,
		Increment:            c.Increment,
	}
}
