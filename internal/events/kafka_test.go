package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"safetrade/internal/config"
	"safetrade/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEncode(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	e := Event{
		Type: TypeTransactionStatusChanged,
		Key:  "9b1f0c7e-0d1e-4c4f-9d6b-1c2a3b4c5d6e",
		Payload: StatusChangedPayload{
			TransactionID: "9b1f0c7e-0d1e-4c4f-9d6b-1c2a3b4c5d6e",
			From:          "PAID",
			To:            "SHIPPING",
			ChangedBy:     "seller-1",
		},
	}

	msg, err := encode(e, now)
	require.NoError(t, err)
	assert.Equal(t, []byte(e.Key), msg.Key)
	assert.Equal(t, TypeTransactionStatusChanged, eventTypeOf(msg))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, TypeTransactionStatusChanged, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, producerName, env.Producer)
	assert.Equal(t, e.Key, env.CorrelationID)
	assert.True(t, now.Equal(env.OccurredAt))
	assert.NotEmpty(t, env.EventID)

	var payload StatusChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "SHIPPING", payload.To)
}

func TestEncode_UnmarshalablePayload(t *testing.T) {
	_, err := encode(Event{Type: "bad", Payload: make(chan int)}, time.Now())
	assert.Error(t, err)
}

func TestNewPublisher_NoBrokers(t *testing.T) {
	cfg := &config.Config{Kafka: config.KafkaConfig{Topic: "safetrade.events"}}
	p := NewPublisher(cfg, metrics.NewMetrics(), zap.NewNop())

	_, ok := p.(*NoopPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeDisputeOpened, Key: "k"}))
	assert.NoError(t, p.Close())
}
