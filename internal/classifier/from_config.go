package classifier

import (
	"github.com/yourusername/court-edge/internal/config"
	"github.com/yourusername/court-edge/internal/models"
)

// FromConfig builds the tag table and fade rule from application
// configuration. Zero-valued thresholds fall back to the documented
// defaults so a minimal config still classifies.
func FromConfig(c *config.ClassifierConfig) ([]TagRule, FadeRule) {
	rules := DefaultRules()
	if c.FavoritesMinProbability > 0 || c.ModerateEdgeMax > 0 || c.GrindEdgeMax > 0 {
		rules = []TagRule{
			{Tag: models.TagAll},
			{Tag: models.TagFavorites, Probability: Band{Min: c.FavoritesMinProbability}},
			{Tag: models.TagModerateEdge, Edge: Band{Min: c.ModerateEdgeMin, Max: c.ModerateEdgeMax}},
			{Tag: models.TagGrind, Edge: Band{Min: c.GrindEdgeMin, Max: c.GrindEdgeMax}, Odds: Band{Min: 1.01, Max: c.GrindMaxOdds}},
		}
	}

	fade := DefaultFadeRule()
	fade.Enabled = c.Fade.Enabled
	if c.Fade.Mode != "" {
		fade.Mode = FadeMode(c.Fade.Mode)
	}
	if c.Fade.MaxOpponentOdds > 0 {
		fade.OpponentOdds = Band{Min: c.Fade.MinOpponentOdds, Max: c.Fade.MaxOpponentOdds}
	}

	return rules, fade
}
