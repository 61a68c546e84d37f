package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"safetrade/internal/config"
	"safetrade/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const headerEventType = "event_type"

type KafkaPublisher struct {
	writer  *kafka.Writer
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewPublisher returns a kafka publisher, or a logging no-op when no brokers are configured.
func NewPublisher(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("kafka brokers not configured, domain events are only logged")
		return &NoopPublisher{log: log}
	}

	p := &KafkaPublisher{metrics: m, log: log, now: time.Now}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion:   p.completion,
	}
	log.Info("kafka publisher ready",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := encode(e, p.now())
		if err != nil {
			p.metrics.RecordEventPublished(e.Type, err)
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// completion runs on the writer goroutine once a batch is acknowledged or dropped.
func (p *KafkaPublisher) completion(messages []kafka.Message, err error) {
	for _, m := range messages {
		eventType := eventTypeOf(m)
		p.metrics.RecordEventPublished(eventType, err)
		if err != nil {
			p.log.Error("failed to publish event",
				zap.String("event_type", eventType),
				zap.ByteString("key", m.Key),
				zap.Error(err),
			)
		}
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(e Event, now time.Time) (kafka.Message, error) {
	env, err := NewEnvelope(e, now)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return kafka.Message{
		Key:   []byte(e.Key),
		Value: value,
		Time:  now,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(e.Type)},
		},
	}, nil
}

func eventTypeOf(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == headerEventType {
			return string(h.Value)
		}
	}
	return "unknown"
}

type NoopPublisher struct {
	log *zap.Logger
}

func NewNoopPublisher(log *zap.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(_ context.Context, events ...Event) error {
	for _, e := range events {
		p.log.Debug("domain event", zap.String("event_type", e.Type), zap.String("key", e.Key))
	}
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
