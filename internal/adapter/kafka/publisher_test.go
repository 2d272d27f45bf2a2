package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrainalert/landslide-risk-service/internal/config"
	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 7, 14, 6, 30, 0, 0, time.UTC)
	a := domain.RiskAssessment{
		ID:         "5b0e0c7e-4c57-4f4e-9a47-1b1d0c9f3b11",
		Place:      "Idukki",
		Latitude:   9.85,
		Longitude:  76.97,
		RiskTier:   domain.TierHigh,
		Risk:       "HIGH RISK",
		AssessedAt: now,
	}

	msg, err := serializeToMessage(a)
	require.NoError(t, err)

	assert.Equal(t, []byte(a.ID), msg.Key)
	assert.Contains(t, string(msg.Value), `"risk_tier":"HIGH"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "risk_tier", msg.Headers[0].Key)
	assert.Equal(t, []byte("HIGH"), msg.Headers[0].Value)
	assert.Equal(t, "assessed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded domain.RiskAssessment
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, a, decoded)
}

func TestSerializeToMessage_NonFinite(t *testing.T) {
	_, err := serializeToMessage(domain.RiskAssessment{Probability: math.NaN()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize assessment")
}

func TestPublisher_PublishAfterClose(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaTopic: "landslide-assessments"}
	p := NewPublisher(cfg, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), domain.RiskAssessment{ID: "a"})
	require.Error(t, err)
}
