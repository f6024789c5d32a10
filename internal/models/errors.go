package models

import "errors"

// Custom errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateBet       = errors.New("active bet already exists for selection")
	ErrOpposingBet        = errors.New("active bet exists for opposing selection")
	ErrInsufficientData   = errors.New("insufficient historical data")
	ErrInvalidOdds        = errors.New("decimal odds must be greater than 1.0")
	ErrWeightProfileSum   = errors.New("weight profile must sum to 1.0")
	ErrEmptyWeightProfile = errors.New("weight profile has no factors")
	ErrUnknownProfile     = errors.New("unknown weight profile")
)
