package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"parkeoWs/internal/realtime/domain"
)

// KafkaConsumer reads one broker topic and hands decoded change events to
// the registry.
type KafkaConsumer struct {
	reader *kafka.Reader
	dedup  *Deduplicator
}

func NewKafkaConsumer(brokers []string, groupID, topic string, dedup *Deduplicator) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
		dedup: dedup,
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

// Consume loops until the context is canceled. Undecodable messages are
// logged and skipped; handler errors never stop the loop.
func (c *KafkaConsumer) Consume(ctx context.Context, registry *HandlerRegistry) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			continue
		}
		if c.dedup != nil && c.dedup.Seen(m.Topic, m.Partition, m.Offset) {
			slog.Debug("kafka duplicate skipped",
				slog.String("topic", m.Topic),
				slog.Int("partition", m.Partition),
				slog.Int64("offset", m.Offset),
			)
			continue
		}

		var ev domain.ChangeEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			slog.Warn("kafka undecodable message",
				slog.String("topic", m.Topic),
				slog.Int64("offset", m.Offset),
				slog.Any("error", err),
			)
			continue
		}
		ev.Normalize()

		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", ev.Entity),
			slog.String("action", ev.Action),
			slog.String("resourceId", ev.ResourceID),
		)
		if err := registry.Dispatch(ctx, m.Topic, &ev); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", m.Topic), slog.Any("error", err))
		}
	}
}

// StartKafkaConsumers launches one consumer goroutine per registered topic.
// With no brokers configured the broker feed is simply absent; the HTTP
// notify endpoints still work.
func StartKafkaConsumers(ctx context.Context, registry *HandlerRegistry, brokers []string, groupID string, dedup *Deduplicator) {
	if len(brokers) == 0 {
		slog.Warn("kafka disabled: no brokers configured")
		return
	}
	for _, topic := range registry.Topics() {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp, dedup)
			defer consumer.Close()
			if err := consumer.Consume(ctx, registry); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("kafka consumer stopped", slog.String("topic", tp), slog.Any("error", err))
			}
		}(topic)
	}
}
