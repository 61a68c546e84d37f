package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.True(t, cfg.Transaction.MinAmount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, cfg.Transaction.DefaultFeePercentage.Equal(decimal.RequireFromString("2")))
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_KafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidAmount(t *testing.T) {
	t.Setenv("MIN_TRANSACTION_AMOUNT", "ten")

	_, err := Load()
	assert.Error(t, err)
}
