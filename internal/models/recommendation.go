package models

import (
	"time"

	"github.com/google/uuid"
)

// ModelTag is a named strategy label. Tags are not mutually exclusive; a
// recommendation may carry several, including none.
type ModelTag string

const (
	TagAll          ModelTag = "all"
	TagFavorites    ModelTag = "favorites"
	TagModerateEdge ModelTag = "moderate-edge"
	TagGrind        ModelTag = "grind"
	TagFade         ModelTag = "fade"
)

// StakeModifier records one step of the staking modifier chain
type StakeModifier struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Detail     string  `json:"detail,omitempty"`
}

// StakeRecommendation is the final sized recommendation for one selection.
// A zero stake with a reason is a valid outcome ("no bet").
type StakeRecommendation struct {
	ID            uuid.UUID       `json:"id"`
	Key           MatchKey        `json:"key"`
	SelectionID   uuid.UUID       `json:"selection_id"`
	OpponentID    uuid.UUID       `json:"opponent_id"`
	Odds          float64         `json:"odds"`
	Probability   float64         `json:"probability"`
	Edge          float64         `json:"edge"`
	ExpectedValue float64         `json:"expected_value"`
	Stake         float64         `json:"stake"`
	Modifiers     []StakeModifier `json:"modifiers,omitempty"`
	Tags          []ModelTag      `json:"tags,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsBet reports whether the recommendation carries a positive stake
func (r *StakeRecommendation) IsBet() bool {
	return r.Stake > 0
}

// HasTag reports whether the recommendation carries the given tag
func (r *StakeRecommendation) HasTag(tag ModelTag) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsFade reports whether this is an opposite-selection fade entry
func (r *StakeRecommendation) IsFade() bool {
	return r.HasTag(TagFade)
}
