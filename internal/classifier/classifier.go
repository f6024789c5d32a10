// Package classifier attaches named strategy tags to recommendations by
// evaluating a declarative table of independent predicates. Tags are not
// mutually exclusive; a recommendation may receive several or none, and
// the table extends through configuration without touching aggregation
// code.
package classifier

import (
	"github.com/yourusername/court-edge/internal/models"
)

// Band is a half-open numeric interval; Max <= 0 means unbounded above
type Band struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Contains reports whether v falls inside the band
func (b Band) Contains(v float64) bool {
	if v < b.Min {
		return false
	}
	if b.Max > 0 && v > b.Max {
		return false
	}
	return true
}

// TagRule pairs a tag with independent probability/edge/odds predicates.
// A zero-valued band matches everything, so TagRule{Tag: "all"} is the
// always-true rule.
type TagRule struct {
	Tag         models.ModelTag `mapstructure:"tag" validate:"required"`
	Probability Band            `mapstructure:"probability"`
	Edge        Band            `mapstructure:"edge"`
	Odds        Band            `mapstructure:"odds"`
}

// Matches evaluates the rule's predicates against the recommendation values
func (r TagRule) Matches(probability, edge, odds float64) bool {
	return r.Probability.Contains(probability) &&
		r.Edge.Contains(edge) &&
		r.Odds.Contains(odds)
}

// FadeMode decides whether a fade entry augments or replaces the primary
// recommendation
type FadeMode string

const (
	FadeModeAugment FadeMode = "augment"
	FadeModeReplace FadeMode = "replace"
)

// FadeRule emits an opposite-selection recommendation when the primary one
// matches a weak-signal tag combination and the opponent's odds fall into
// the configured band
type FadeRule struct {
	Enabled      bool              `mapstructure:"enabled"`
	Mode         FadeMode          `mapstructure:"mode" validate:"omitempty,oneof=augment replace"`
	RequireTags  []models.ModelTag `mapstructure:"require_tags"`
	ExcludeTags  []models.ModelTag `mapstructure:"exclude_tags"`
	OpponentOdds Band              `mapstructure:"opponent_odds"`
}

// Classifier evaluates the tag table and the fade rule
type Classifier struct {
	rules []TagRule
	fade  FadeRule
}

// New creates a classifier from a rule table and fade rule
func New(rules []TagRule, fade FadeRule) *Classifier {
	return &Classifier{rules: rules, fade: fade}
}

// DefaultRules returns the documented strategy table
func DefaultRules() []TagRule {
	return []TagRule{
		{Tag: models.TagAll},
		{Tag: models.TagFavorites, Probability: Band{Min: 0.62}},
		{Tag: models.TagModerateEdge, Edge: Band{Min: 0.04, Max: 0.10}},
		{Tag: models.TagGrind, Edge: Band{Min: 0.03, Max: 0.06}, Odds: Band{Min: 1.01, Max: 2.2}},
	}
}

// DefaultFadeRule returns the documented fade configuration
func DefaultFadeRule() FadeRule {
	return FadeRule{
		Enabled:      true,
		Mode:         FadeModeAugment,
		RequireTags:  []models.ModelTag{models.TagAll},
		ExcludeTags:  []models.ModelTag{models.TagFavorites, models.TagModerateEdge},
		OpponentOdds: Band{Min: 2.5, Max: 6.0},
	}
}

// Tags evaluates every rule independently and returns all matches
func (c *Classifier) Tags(probability, edge, odds float64) []models.ModelTag {
	var tags []models.ModelTag
	for _, r := range c.rules {
		if r.Matches(probability, edge, odds) {
			tags = append(tags, r.Tag)
		}
	}
	return tags
}

// Fade reports whether a fade entry should be emitted for the opponent
// and whether it replaces the primary recommendation
func (c *Classifier) Fade(primaryTags []models.ModelTag, opponentOdds float64) (emit bool, replace bool) {
	if !c.fade.Enabled {
		return false, false
	}
	for _, required := range c.fade.RequireTags {
		if !hasTag(primaryTags, required) {
			return false, false
		}
	}
	for _, excluded := range c.fade.ExcludeTags {
		if hasTag(primaryTags, excluded) {
			return false, false
		}
	}
	if !c.fade.OpponentOdds.Contains(opponentOdds) {
		return false, false
	}
	return true, c.fade.Mode == FadeModeReplace
}

func hasTag(tags []models.ModelTag, tag models.ModelTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
