// Package config loads runtime configuration from the environment.
// A .env file is read first when present, then every key can be
// overridden by a real environment variable.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Port        string
	CORSOrigins string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Kafka       KafkaConfig
	Stripe      StripeConfig
	Transaction TransactionConfig
	RateLimit   RateLimitConfig
	Admin       AdminConfig
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN returns the libpq-style connection string used by the postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type StripeConfig struct {
	SecretKey string
}

// TransactionConfig holds the fallbacks used when a system setting is missing.
type TransactionConfig struct {
	MinAmount            decimal.Decimal
	MaxAmount            decimal.Decimal
	DefaultFeePercentage decimal.Decimal
}

type RateLimitConfig struct {
	Max        int
	Expiration time.Duration
}

type AdminConfig struct {
	Name     string
	Phone    string
	Email    string
	Password string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load builds the configuration from the environment.
func Load() (*Config, error) {
	LoadEnv()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:         v.GetString("ENV"),
		Port:        v.GetString("PORT"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			RefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
			AccessTTL:     v.GetDuration("JWT_EXPIRE"),
			RefreshTTL:    v.GetDuration("JWT_REFRESH_EXPIRE"),
			Issuer:        v.GetString("JWT_ISSUER"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Stripe: StripeConfig{
			SecretKey: v.GetString("STRIPE_SECRET_KEY"),
		},
		RateLimit: RateLimitConfig{
			Max:        v.GetInt("RATE_LIMIT_MAX"),
			Expiration: v.GetDuration("RATE_LIMIT_EXPIRATION"),
		},
		Admin: AdminConfig{
			Name:     v.GetString("ADMIN_NAME"),
			Phone:    v.GetString("ADMIN_PHONE"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	var err error
	if cfg.Transaction.MinAmount, err = decimal.NewFromString(v.GetString("MIN_TRANSACTION_AMOUNT")); err != nil {
		return nil, fmt.Errorf("invalid MIN_TRANSACTION_AMOUNT: %w", err)
	}
	if cfg.Transaction.MaxAmount, err = decimal.NewFromString(v.GetString("MAX_TRANSACTION_AMOUNT")); err != nil {
		return nil, fmt.Errorf("invalid MAX_TRANSACTION_AMOUNT: %w", err)
	}
	if cfg.Transaction.DefaultFeePercentage, err = decimal.NewFromString(v.GetString("DEFAULT_FEE_PERCENTAGE")); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_FEE_PERCENTAGE: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "safetrade")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 30*time.Minute)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 10*time.Minute)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_REFRESH_SECRET", "")
	v.SetDefault("JWT_EXPIRE", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRE", 7*24*time.Hour)
	v.SetDefault("JWT_ISSUER", "safetrade-api")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "safetrade.events")

	v.SetDefault("STRIPE_SECRET_KEY", "")

	v.SetDefault("MIN_TRANSACTION_AMOUNT", "10000")
	v.SetDefault("MAX_TRANSACTION_AMOUNT", "1000000000")
	v.SetDefault("DEFAULT_FEE_PERCENTAGE", "2.00")

	v.SetDefault("RATE_LIMIT_MAX", 5)
	v.SetDefault("RATE_LIMIT_EXPIRATION", time.Minute)

	v.SetDefault("ADMIN_NAME", "Administrator")
	v.SetDefault("ADMIN_PHONE", "0900000000")
	v.SetDefault("ADMIN_EMAIL", "admin@safetrade.local")
	v.SetDefault("ADMIN_PASSWORD", "")
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" || c.JWT.RefreshSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must be set in production")
		}
		if c.JWT.Secret == "" {
			c.JWT.Secret = "safetrade-dev-secret"
		}
		if c.JWT.RefreshSecret == "" {
			c.JWT.RefreshSecret = "safetrade-dev-refresh-secret"
		}
	}
	if c.Transaction.MinAmount.GreaterThan(c.Transaction.MaxAmount) {
		return errors.New("MIN_TRANSACTION_AMOUNT must not exceed MAX_TRANSACTION_AMOUNT")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
