// Package domain models landslide risk inference for a named place.
//
// # Inputs
//
// Two sources feed every assessment:
//
//	Terrain samples: points from a precomputed elevation grid, each with
//	elevation (m), slope (degrees) and aspect (compass bearing of the
//	steepest descent, degrees). The grid is produced offline from a DEM
//	and loaded once at startup.
//
//	Weather observations: current rainfall (mm), temperature (°C) and
//	relative humidity (%) for the resolved coordinates, fetched per request.
//
// # Classifier contract
//
// The classifier consumes a FeatureVector whose values are always ordered
//
//	rainfall_mm, slope_angle, aspect, elevation_m, temperature_c, humidity_percent
//
// This order is part of the trained model, not an implementation detail.
// Reordering it requires retraining. FeatureNames is the canonical list and
// model loaders must reject any model declaring a different order.
//
// # Risk tiers
//
// Scores are probabilities in [0,1] mapped with inclusive lower bounds:
//
//	p >= 0.8  HIGH
//	p >= 0.6  MEDIUM
//	p >= 0.4  LOW
//	otherwise SAFE
//
// A score outside [0,1] is a contract violation reported as
// ErrClassifierContract. It is never clamped.
package domain
