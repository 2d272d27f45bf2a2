package domain

import "math"

// TerrainSample is one point of the static terrain dataset.
type TerrainSample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"` // meters
	Slope     float64 `json:"slope"`     // degrees
	Aspect    float64 `json:"aspect"`    // degrees, compass bearing
}

// Finite reports whether every field holds a finite number.
func (s TerrainSample) Finite() bool {
	return isFinite(s.Latitude) && isFinite(s.Longitude) &&
		isFinite(s.Elevation) && isFinite(s.Slope) && isFinite(s.Aspect)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
