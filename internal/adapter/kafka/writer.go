// Package kafka publishes canonical country snapshots to a sink topic
// for downstream consumers (search indexers, warehouse loaders).
// Publishing is feature-flagged and best-effort; the query API never
// depends on it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/atlasboard/country-data-service/internal/config"
	"github.com/atlasboard/country-data-service/internal/domain"
	"github.com/atlasboard/country-data-service/internal/observability"
)

// Writer produces canonical country records to a Kafka topic.
// It implements snapshot.Publisher.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// PublishSnapshot serializes every canonical record of a snapshot and
// publishes the batch in a single WriteMessages call.
func (w *Writer) PublishSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Countries) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(snap.Countries))
	for i := range snap.Countries {
		msg, err := serializeToMessage(snap.Countries[i], snap.FetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	w.metrics.KafkaRecordsPublished.Add(float64(len(msgs)))
	w.logger.Debug("snapshot published", "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a canonical country into a Kafka message
// keyed by country name, so compacted topics retain one record per country.
func serializeToMessage(c domain.Country, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize country: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(c.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(c.Region)},
			{Key: "fetched_at", Value: []byte(fetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
