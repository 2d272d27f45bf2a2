package classifier

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

func unscaledModel() Model {
	return Model{
		Name:         "test",
		Features:     append([]string(nil), domain.FeatureNames...),
		Intercept:    0,
		Coefficients: []float64{1, 0, 0, 0, 0, 0},
	}
}

func TestLoadLogistic(t *testing.T) {
	l, err := LoadLogistic(filepath.Join("testdata", "model.yaml"))
	require.NoError(t, err)

	m := l.Model()
	assert.Equal(t, "landslide-logreg", m.Name)
	assert.Equal(t, domain.FeatureNames, m.Features)
	require.NotNil(t, m.Scaling)
	assert.Len(t, m.Scaling.Mean, 6)
}

func TestLoadLogistic_RejectsReorderedFeatures(t *testing.T) {
	_, err := LoadLogistic(filepath.Join("testdata", "reordered.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match schema")
}

func TestLoadLogistic_MissingFile(t *testing.T) {
	_, err := LoadLogistic(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read model")
}

func TestNewLogistic_CoefficientCount(t *testing.T) {
	m := unscaledModel()
	m.Coefficients = m.Coefficients[:5]
	_, err := NewLogistic(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coefficients")
}

func TestNewLogistic_ZeroStd(t *testing.T) {
	m := unscaledModel()
	m.Scaling = &Scaling{Mean: make([]float64, 6), Std: []float64{1, 1, 0, 1, 1, 1}}
	_, err := NewLogistic(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aspect")
}

func TestLogistic_Score(t *testing.T) {
	l, err := NewLogistic(unscaledModel())
	require.NoError(t, err)

	p, err := l.Score(context.Background(), domain.FeatureVector{})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	p, err = l.Score(context.Background(), domain.FeatureVector{RainfallMM: 50})
	require.NoError(t, err)
	assert.Greater(t, p, 0.99)
	assert.LessOrEqual(t, p, 1.0)

	p, err = l.Score(context.Background(), domain.FeatureVector{RainfallMM: -50})
	require.NoError(t, err)
	assert.Less(t, p, 0.01)
	assert.GreaterOrEqual(t, p, 0.0)
}

func TestLogistic_ScoreUsesFeatureOrder(t *testing.T) {
	m := unscaledModel()
	m.Coefficients = []float64{0, 0, 0, 0, 0, 1} // humidity only
	l, err := NewLogistic(m)
	require.NoError(t, err)

	low, err := l.Score(context.Background(), domain.FeatureVector{RainfallMM: 100, HumidityPercent: -3})
	require.NoError(t, err)
	high, err := l.Score(context.Background(), domain.FeatureVector{RainfallMM: -100, HumidityPercent: 3})
	require.NoError(t, err)
	assert.Less(t, low, 0.5)
	assert.Greater(t, high, 0.5)
}

func TestLogistic_ShippedModelSeparatesExtremes(t *testing.T) {
	l, err := LoadLogistic(filepath.Join("testdata", "model.yaml"))
	require.NoError(t, err)

	calm := domain.FeatureVector{RainfallMM: 0, SlopeAngle: 2, Aspect: 180, ElevationM: 50, TemperatureC: 30, HumidityPercent: 55}
	storm := domain.FeatureVector{RainfallMM: 60, SlopeAngle: 40, Aspect: 200, ElevationM: 1500, TemperatureC: 22, HumidityPercent: 98}

	pCalm, err := l.Score(context.Background(), calm)
	require.NoError(t, err)
	pStorm, err := l.Score(context.Background(), storm)
	require.NoError(t, err)

	assert.Equal(t, domain.TierSafe, domain.TierFor(pCalm))
	assert.Equal(t, domain.TierHigh, domain.TierFor(pStorm))
}
