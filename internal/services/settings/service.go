package settings

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"safetrade/internal/config"
	apperrors "safetrade/internal/errors"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/repositories/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]models.SystemSetting, error)
	Set(ctx context.Context, key, value string, description *string, updatedBy uuid.UUID) (*models.SystemSetting, error)
	TransactionLimits(ctx context.Context) (models.TransactionLimits, error)
	MaintenanceMode(ctx context.Context) bool
	SeedDefaults(ctx context.Context) error
}

type service struct {
	repo     repositories.SettingRepository
	cache    *cache.CacheService
	fallback config.TransactionConfig
	log      *zap.Logger
}

func NewService(repo repositories.SettingRepository, cache *cache.CacheService, cfg *config.Config, log *zap.Logger) Service {
	return &service{repo: repo, cache: cache, fallback: cfg.Transaction, log: log}
}

func (s *service) List(ctx context.Context) ([]models.SystemSetting, error) {
	return s.repo.List(ctx)
}

func (s *service) Set(ctx context.Context, key, value string, description *string, updatedBy uuid.UUID) (*models.SystemSetting, error) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if err := validateValue(key, value); err != nil {
		return nil, err
	}

	setting := &models.SystemSetting{
		SettingKey:   key,
		SettingValue: value,
		Description:  description,
		UpdatedBy:    &updatedBy,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateSettings(ctx); err != nil {
		s.log.Warn("failed to invalidate settings cache", zap.Error(err))
	}

	s.log.Info("system setting updated",
		zap.String("key", key),
		zap.String("value", value),
		zap.String("updated_by", updatedBy.String()),
	)
	return s.repo.Get(ctx, key)
}

// TransactionLimits reads the amount bounds and default fee, falling back to
// configuration for missing or unparsable values.
func (s *service) TransactionLimits(ctx context.Context) (models.TransactionLimits, error) {
	values, err := s.values(ctx)
	if err != nil {
		return models.TransactionLimits{}, err
	}
	return models.TransactionLimits{
		MinAmount:     s.decimalOr(values, models.SettingMinTransactionAmount, s.fallback.MinAmount),
		MaxAmount:     s.decimalOr(values, models.SettingMaxTransactionAmount, s.fallback.MaxAmount),
		FeePercentage: s.decimalOr(values, models.SettingDefaultFeePercentage, s.fallback.DefaultFeePercentage),
	}, nil
}

// MaintenanceMode is false when the setting cannot be read.
func (s *service) MaintenanceMode(ctx context.Context) bool {
	values, err := s.values(ctx)
	if err != nil {
		s.log.Warn("failed to read maintenance mode", zap.Error(err))
		return false
	}
	on, _ := strconv.ParseBool(values[models.SettingMaintenanceMode])
	return on
}

func (s *service) SeedDefaults(ctx context.Context) error {
	if err := s.repo.SeedDefaults(ctx, models.DefaultSettings()); err != nil {
		return err
	}
	return s.cache.InvalidateSettings(ctx)
}

func (s *service) values(ctx context.Context) (map[string]string, error) {
	values, err := s.cache.GetSettings(ctx)
	if err == nil {
		return values, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("settings cache read failed", zap.Error(err))
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	values = make(map[string]string, len(list))
	for _, item := range list {
		values[item.SettingKey] = item.SettingValue
	}

	if err := s.cache.CacheSettings(ctx, values); err != nil {
		s.log.Warn("failed to cache settings", zap.Error(err))
	}
	return values, nil
}

func (s *service) decimalOr(values map[string]string, key string, fallback decimal.Decimal) decimal.Decimal {
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		s.log.Warn("invalid numeric setting, using default", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return d
}

var hundred = decimal.NewFromInt(100)

func validateValue(key, value string) error {
	invalid := func(msg string) error {
		return apperrors.Validation("Validation error",
			apperrors.FieldError{Field: "settingValue", Message: msg, Value: value})
	}

	if key == "" {
		return apperrors.Validation("Validation error",
			apperrors.FieldError{Field: "key", Message: "key is required"})
	}
	if value == "" {
		return invalid("settingValue is required")
	}

	switch key {
	case models.SettingDefaultFeePercentage:
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() || d.GreaterThan(hundred) {
			return invalid("fee percentage must be a number between 0 and 100")
		}
	case models.SettingMinTransactionAmount, models.SettingMaxTransactionAmount:
		d, err := decimal.NewFromString(value)
		if err != nil || !d.IsPositive() {
			return invalid("amount must be a positive number")
		}
	case models.SettingDisputeAutoResolveDays:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return invalid("days must be a positive integer")
		}
	case models.SettingMaintenanceMode:
		if _, err := strconv.ParseBool(value); err != nil {
			return invalid("maintenance mode must be true or false")
		}
	}
	return nil
}
