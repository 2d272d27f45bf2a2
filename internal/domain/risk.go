package domain

import (
	"fmt"
	"math"
	"time"
)

// RiskTier is the discrete landslide risk classification.
type RiskTier string

const (
	TierSafe   RiskTier = "SAFE"
	TierLow    RiskTier = "LOW"
	TierMedium RiskTier = "MEDIUM"
	TierHigh   RiskTier = "HIGH"
)

// Tier thresholds are inclusive lower bounds.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.6
	LowThreshold    = 0.4
)

// TierFor maps a probability to its tier. Callers validate the range first
// with ValidateProbability.
func TierFor(p float64) RiskTier {
	switch {
	case p >= HighThreshold:
		return TierHigh
	case p >= MediumThreshold:
		return TierMedium
	case p >= LowThreshold:
		return TierLow
	default:
		return TierSafe
	}
}

// Label returns the display text shown to end users.
func (t RiskTier) Label() string {
	switch t {
	case TierHigh:
		return "HIGH RISK"
	case TierMedium:
		return "MEDIUM RISK"
	case TierLow:
		return "LOW RISK"
	case TierSafe:
		return "SAFE"
	default:
		return string(t)
	}
}

// ValidateProbability returns ErrClassifierContract for values outside [0,1].
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: probability %v outside [0,1]", ErrClassifierContract, p)
	}
	return nil
}

// RiskAssessment is the result of one inference run.
type RiskAssessment struct {
	ID              string             `json:"id"`
	Place           string             `json:"place"`
	Latitude        float64            `json:"latitude"`
	Longitude       float64            `json:"longitude"`
	RiskTier        RiskTier           `json:"risk_tier"`
	Risk            string             `json:"risk"`
	Probability     float64            `json:"probability"`
	Weather         WeatherObservation `json:"weather"`
	Terrain         TerrainSample      `json:"terrain"`
	TerrainDistance float64            `json:"terrain_distance_deg"`
	AssessedAt      time.Time          `json:"assessed_at"`
}
