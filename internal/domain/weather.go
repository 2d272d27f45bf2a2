package domain

import (
	"context"
	"errors"
)

// WeatherObservation is a point-in-time reading for a coordinate.
type WeatherObservation struct {
	RainfallMM      float64 `json:"rainfall_mm"`
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPercent float64 `json:"humidity_percent"`
}

// WeatherGateway returns current conditions for a coordinate.
type WeatherGateway interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (WeatherObservation, error)
}

// Validate rejects observations carrying non-finite values.
func (w WeatherObservation) Validate() error {
	if !isFinite(w.RainfallMM) || !isFinite(w.TemperatureC) || !isFinite(w.HumidityPercent) {
		return errors.New("weather observation has non-finite values")
	}
	return nil
}
