// Package kafka publishes risk assessments to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/terrainalert/landslide-risk-service/internal/config"
	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

// Publisher produces assessment events to the configured topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates an asynchronous Kafka producer. Delivery failures are
// reported from the completion callback rather than to Publish callers.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafkago.Message, err error) {
			if err == nil {
				return
			}
			metrics.PublishErrors.Add(float64(len(messages)))
			logger.Error("assessment delivery failed", "count", len(messages), "topic", cfg.KafkaTopic, "error", err)
		},
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish enqueues one assessment keyed by its ID.
func (p *Publisher) Publish(ctx context.Context, a domain.RiskAssessment) error {
	msg, err := serializeToMessage(a)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a RiskAssessment into a Kafka message.
func serializeToMessage(a domain.RiskAssessment) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(a.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_tier", Value: []byte(a.RiskTier)},
			{Key: "assessed_at", Value: []byte(a.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
