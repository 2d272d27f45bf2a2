package domain

import "fmt"

// FeatureNames lists the classifier inputs in the order the model was trained on.
var FeatureNames = []string{
	"rainfall_mm",
	"slope_angle",
	"aspect",
	"elevation_m",
	"temperature_c",
	"humidity_percent",
}

// FeatureVector is the fixed-schema classifier input.
type FeatureVector struct {
	RainfallMM      float64 `json:"rainfall_mm"`
	SlopeAngle      float64 `json:"slope_angle"`
	Aspect          float64 `json:"aspect"`
	ElevationM      float64 `json:"elevation_m"`
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPercent float64 `json:"humidity_percent"`
}

// Assemble merges a terrain sample and a weather observation into the
// classifier's feature vector.
func Assemble(sample TerrainSample, weather WeatherObservation) FeatureVector {
	return FeatureVector{
		RainfallMM:      weather.RainfallMM,
		SlopeAngle:      sample.Slope,
		Aspect:          sample.Aspect,
		ElevationM:      sample.Elevation,
		TemperatureC:    weather.TemperatureC,
		HumidityPercent: weather.HumidityPercent,
	}
}

// Values returns the features in FeatureNames order.
func (fv FeatureVector) Values() []float64 {
	return []float64{
		fv.RainfallMM,
		fv.SlopeAngle,
		fv.Aspect,
		fv.ElevationM,
		fv.TemperatureC,
		fv.HumidityPercent,
	}
}

// Named returns the features keyed by name.
func (fv FeatureVector) Named() map[string]float64 {
	values := fv.Values()
	named := make(map[string]float64, len(values))
	for i, name := range FeatureNames {
		named[name] = values[i]
	}
	return named
}

// Validate fails on the first non-finite feature.
func (fv FeatureVector) Validate() error {
	for i, v := range fv.Values() {
		if !isFinite(v) {
			return fmt.Errorf("feature %s is not a finite number", FeatureNames[i])
		}
	}
	return nil
}
