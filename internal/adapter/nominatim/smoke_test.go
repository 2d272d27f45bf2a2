//go:build smoke

package nominatim

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

// These tests hit the public Nominatim instance.
// Run with: go test -tags=smoke ./internal/adapter/nominatim/ -v -count=1

func smokeClient() *Client {
	return NewClient("https://nominatim.openstreetmap.org", "TerrainAlert-App", 10*time.Second, 1,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Geocode(t *testing.T) {
	result, err := smokeClient().Geocode(context.Background(), "Idukki")
	require.NoError(t, err)
	require.True(t, result.Matched)

	assert.InDelta(t, 9.85, result.Lat, 0.5)
	assert.InDelta(t, 76.97, result.Lon, 0.5)
	assert.Contains(t, result.DisplayName, "Idukki")
}

func TestSmoke_GeocodeUnknownPlace(t *testing.T) {
	result, err := smokeClient().Geocode(context.Background(), "Zzzqqxxyyqqzz")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}
