// Package config provides configuration management for the Court Edge application.
package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// weightSumTolerance bounds the floating point slack allowed when checking
// that a weight profile sums to one.
const weightSumTolerance = 1e-9

// knownFactors lists every factor name a weight profile may reference.
var knownFactors = map[string]bool{
	"form":         true,
	"surface":      true,
	"ranking":      true,
	"head_to_head": true,
	"fatigue":      true,
	"recent_loss":  true,
	"momentum":     true,
}

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Every weight profile must name known factors and sum to one. Profiles
	// are never silently renormalized, a bad sum is a startup failure.
	for name, weights := range cfg.Profiles.Weights {
		if len(weights) == 0 {
			return fmt.Errorf("weight profile %q has no entries", name)
		}
		sum := 0.0
		for factor, weight := range weights {
			if !knownFactors[factor] {
				return fmt.Errorf("weight profile %q references unknown factor %q", name, factor)
			}
			if weight < 0 {
				return fmt.Errorf("weight profile %q has negative weight for %q", name, factor)
			}
			sum += weight
		}
		if math.Abs(sum-1.0) > weightSumTolerance {
			return fmt.Errorf("weight profile %q sums to %.12f, must sum to 1.0", name, sum)
		}
	}

	if _, ok := cfg.Profiles.Weights[cfg.Profiles.Active]; !ok {
		return fmt.Errorf("active profile %q not defined under profiles.weights", cfg.Profiles.Active)
	}

	// Model and market blend weights must partition the probability mass
	if math.Abs(cfg.Analysis.ModelWeight+cfg.Analysis.MarketWeight-1.0) > weightSumTolerance {
		return fmt.Errorf("model_weight and market_weight must sum to 1.0, got %.12f",
			cfg.Analysis.ModelWeight+cfg.Analysis.MarketWeight)
	}

	// Disagreement tiers must be strictly increasing with exactly one
	// unbounded final tier
	for i, tier := range cfg.Staking.Tiers {
		last := i == len(cfg.Staking.Tiers)-1
		if last {
			if tier.MaxRatio > 0 {
				return fmt.Errorf("final staking tier must be unbounded (max_ratio <= 0)")
			}
			continue
		}
		if tier.MaxRatio <= 0 {
			return fmt.Errorf("staking tier %d: only the final tier may be unbounded", i)
		}
		if i > 0 && tier.MaxRatio <= cfg.Staking.Tiers[i-1].MaxRatio {
			return fmt.Errorf("staking tiers must have strictly increasing max_ratio values")
		}
	}

	if cfg.Staking.MinUnit > cfg.Staking.MaxUnit {
		return fmt.Errorf("staking min_unit (%.2f) cannot exceed max_unit (%.2f)",
			cfg.Staking.MinUnit, cfg.Staking.MaxUnit)
	}

	if cfg.Classifier.ModerateEdgeMin > cfg.Classifier.ModerateEdgeMax {
		return fmt.Errorf("classifier moderate_edge_min cannot exceed moderate_edge_max")
	}
	if cfg.Classifier.GrindEdgeMin > cfg.Classifier.GrindEdgeMax {
		return fmt.Errorf("classifier grind_edge_min cannot exceed grind_edge_max")
	}
	if cfg.Classifier.Fade.Enabled {
		if cfg.Classifier.Fade.MinOpponentOdds >= cfg.Classifier.Fade.MaxOpponentOdds {
			return fmt.Errorf("fade min_opponent_odds must be below max_opponent_odds")
		}
	}

	// Validate production environment requirements
	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
