package models

import "github.com/cockroachdb/errors"

// MiningRequest carries one rule-generation call.
type MiningRequest struct {
	RequestID     string
	Dataset       string
	MaxRules      int
	MinSupport    float64
	MinConfidence float64
}

// Validate checks the thresholds of the request.
func (r MiningRequest) Validate() error {
	return ValidateThresholds(r.MaxRules, r.MinSupport, r.MinConfidence)
}

// ValidateThresholds requires maxRules >= 0 and both ratios in (0,1].
func ValidateThresholds(maxRules int, minSupport, minConfidence float64) error {
	switch {
	case maxRules < 0:
		return errors.Mark(errors.Newf("max rules must be >= 0, got %d", maxRules), ErrInvalidParameter)
	case !(minSupport > 0 && minSupport <= 1):
		return errors.Mark(errors.Newf("min support must be in (0,1], got %v", minSupport), ErrInvalidParameter)
	case !(minConfidence > 0 && minConfidence <= 1):
		return errors.Mark(errors.Newf("min confidence must be in (0,1], got %v", minConfidence), ErrInvalidParameter)
	}
	return nil
}
