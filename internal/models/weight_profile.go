package models

import (
	"fmt"
	"math"
)

// weightSumTolerance bounds the acceptable floating point drift when
// checking that profile weights sum to 1.0
const weightSumTolerance = 1e-9

// WeightProfile maps factor names to aggregation weights. Profiles are
// immutable and versioned by name; zero-weight entries represent a factor
// that is present but disabled, distinct from one that was removed.
type WeightProfile struct {
	Name    string             `json:"name" validate:"required"`
	Version string             `json:"version" validate:"required"`
	Weights map[string]float64 `json:"weights" validate:"required,min=1"`
}

// Sum returns the total of all weights
func (p *WeightProfile) Sum() float64 {
	total := 0.0
	for _, w := range p.Weights {
		total += w
	}
	return total
}

// Validate fails when weights are negative or do not sum to 1.0. Profiles
// are never normalized silently: normalization has previously masked
// double-counted factors.
func (p *WeightProfile) Validate() error {
	if len(p.Weights) == 0 {
		return fmt.Errorf("weight profile %q: %w", p.Name, ErrEmptyWeightProfile)
	}
	for name, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("weight profile %q: factor %q has negative weight %v", p.Name, name, w)
		}
	}
	if sum := p.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weight profile %q sums to %v: %w", p.Name, sum, ErrWeightProfileSum)
	}
	return nil
}
