//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/terrainalert/landslide-risk-service/internal/adapter/http"
	"github.com/terrainalert/landslide-risk-service/internal/adapter/kafka"
	"github.com/terrainalert/landslide-risk-service/internal/adapter/nominatim"
	"github.com/terrainalert/landslide-risk-service/internal/adapter/weatherapi"
	"github.com/terrainalert/landslide-risk-service/internal/classifier"
	"github.com/terrainalert/landslide-risk-service/internal/config"
	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
	"github.com/terrainalert/landslide-risk-service/internal/pipeline"
	"github.com/terrainalert/landslide-risk-service/internal/terrain"
)

const testTopic = "test-landslide-assessments"

// fakeUpstreams serves canned Nominatim and WeatherAPI responses.
func fakeUpstreams(t *testing.T) (geocoderURL, weatherURL string) {
	t.Helper()

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Query().Get("q"), "Idukki") {
			_, _ = w.Write([]byte(`[{"lat":"10.1","lon":"76.1","display_name":"Idukki, Kerala, India"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(geo.Close)

	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"precip_mm":40.0,"temp_c":24.0,"humidity":92}}`))
	}))
	t.Cleanup(wx.Close)

	return geo.URL, wx.URL
}

// TestAssessmentStreamEndToEnd wires the real adapters, classifier, and
// terrain loader behind the HTTP API and verifies the published event.
func TestAssessmentStreamEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}
	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()

	samples, stats, err := terrain.LoadCSVFile("../terrain/testdata/terrain_sample.csv")
	require.NoError(t, err)
	require.Equal(t, 2, stats.Skipped)
	idx, err := terrain.Build(samples)
	require.NoError(t, err)

	model, err := classifier.LoadLogistic("../../model/landslide_model.yaml")
	require.NoError(t, err)

	geoURL, wxURL := fakeUpstreams(t)
	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(geoURL, "TerrainAlert-Test", 5*time.Second, 50, metrics, logger),
		time.Minute, metrics)
	weather := weatherapi.NewClient(wxURL, "test-key", 5*time.Second, metrics, logger)

	publisher := kafka.NewPublisher(cfg, metrics, logger)
	p := pipeline.New(idx, geocoder, weather, model, logger, metrics, pipeline.WithPublisher(publisher))
	srv := httptest.NewServer(httpadapter.NewServer(":0", p, p, logger))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(`{"place":"idukki"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.RiskAssessment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Idukki", got.Place)
	assert.Equal(t, domain.TierHigh, got.RiskTier)
	assert.InDelta(t, 31.4, got.Terrain.Slope, 1e-9)
	assert.InDelta(t, 0, got.TerrainDistance, 1e-9)

	resp404, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(`{"place":"Zzzqq"}`))
	require.NoError(t, err)
	resp404.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp404.StatusCode)

	// Close flushes the async writer.
	require.NoError(t, publisher.Close())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read assessment event")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, got.ID, string(msg.Key))
	assert.Equal(t, "HIGH", headers["risk_tier"])
	_, err = time.Parse(time.RFC3339, headers["assessed_at"])
	require.NoError(t, err)

	var event domain.RiskAssessment
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, got.ID, event.ID)
	assert.Equal(t, got.Probability, event.Probability)
}
