//go:build smoke

package weatherapi

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

// These tests hit the real WeatherAPI and require WEATHER_API_KEY.
// Run with: go test -tags=smoke ./internal/adapter/weatherapi/ -v -count=1

func TestSmoke_CurrentWeather(t *testing.T) {
	key := os.Getenv("WEATHER_API_KEY")
	if key == "" {
		t.Fatal("WEATHER_API_KEY must be set to run smoke tests")
	}
	c := NewClient("http://api.weatherapi.com/v1", key, 10*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	obs, err := c.CurrentWeather(context.Background(), 9.85, 76.97)
	require.NoError(t, err)
	require.NoError(t, obs.Validate())
	require.GreaterOrEqual(t, obs.HumidityPercent, 0.0)
}
