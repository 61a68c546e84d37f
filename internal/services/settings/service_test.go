package settings_test

import (
	"context"
	"errors"
	"testing"

	"safetrade/internal/config"
	apperrors "safetrade/internal/errors"
	"safetrade/internal/mocks"
	"safetrade/internal/models"
	"safetrade/internal/services/settings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{Transaction: config.TransactionConfig{
		MinAmount:            decimal.NewFromInt(10000),
		MaxAmount:            decimal.NewFromInt(1000000000),
		DefaultFeePercentage: decimal.RequireFromString("2.00"),
	}}
}

func TestService_TransactionLimits(t *testing.T) {
	ctx := context.Background()

	t.Run("reads stored values", func(t *testing.T) {
		repo := &mocks.SettingRepository{}
		repo.On("List", ctx).Return([]models.SystemSetting{
			{SettingKey: models.SettingMinTransactionAmount, SettingValue: "50000"},
			{SettingKey: models.SettingDefaultFeePercentage, SettingValue: "1.5"},
		}, nil)
		svc := settings.NewService(repo, nil, testConfig(), zap.NewNop())

		limits, err := svc.TransactionLimits(ctx)

		require.NoError(t, err)
		assert.True(t, limits.MinAmount.Equal(decimal.NewFromInt(50000)))
		assert.True(t, limits.FeePercentage.Equal(decimal.RequireFromString("1.5")))
		assert.True(t, limits.MaxAmount.Equal(decimal.NewFromInt(1000000000)), "missing key uses config")
	})

	t.Run("unparsable value falls back", func(t *testing.T) {
		repo := &mocks.SettingRepository{}
		repo.On("List", ctx).Return([]models.SystemSetting{
			{SettingKey: models.SettingMaxTransactionAmount, SettingValue: "lots"},
		}, nil)
		svc := settings.NewService(repo, nil, testConfig(), zap.NewNop())

		limits, err := svc.TransactionLimits(ctx)

		require.NoError(t, err)
		assert.True(t, limits.MaxAmount.Equal(decimal.NewFromInt(1000000000)))
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &mocks.SettingRepository{}
		repo.On("List", ctx).Return(nil, errors.New("connection refused"))
		svc := settings.NewService(repo, nil, testConfig(), zap.NewNop())

		_, err := svc.TransactionLimits(ctx)
		assert.Error(t, err)
	})
}

func TestService_MaintenanceMode(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SettingRepository{}
	repo.On("List", ctx).Return([]models.SystemSetting{
		{SettingKey: models.SettingMaintenanceMode, SettingValue: "true"},
	}, nil).Once()
	repo.On("List", ctx).Return(nil, errors.New("down")).Once()
	svc := settings.NewService(repo, nil, testConfig(), zap.NewNop())

	assert.True(t, svc.MaintenanceMode(ctx))
	assert.False(t, svc.MaintenanceMode(ctx), "read failure leaves the API writable")
}

func TestService_Set(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	tests := []struct {
		name  string
		key   string
		value string
		ok    bool
	}{
		{"fee in range", models.SettingDefaultFeePercentage, "3.5", true},
		{"fee above 100", models.SettingDefaultFeePercentage, "101", false},
		{"negative amount", models.SettingMinTransactionAmount, "-1", false},
		{"zero days", models.SettingDisputeAutoResolveDays, "0", false},
		{"maintenance flag", models.SettingMaintenanceMode, "true", true},
		{"maintenance garbage", models.SettingMaintenanceMode, "sometimes", false},
		{"free form key", "support_email", "help@safetrade.local", true},
		{"empty value", "support_email", "  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.SettingRepository{}
			stored := &models.SystemSetting{SettingKey: tt.key, SettingValue: tt.value, UpdatedBy: &adminID}
			repo.On("Upsert", ctx, mock.MatchedBy(func(s *models.SystemSetting) bool {
				return s.SettingKey == tt.key && *s.UpdatedBy == adminID
			})).Return(nil)
			repo.On("Get", ctx, tt.key).Return(stored, nil)
			svc := settings.NewService(repo, nil, testConfig(), zap.NewNop())

			got, err := svc.Set(ctx, tt.key, tt.value, nil, adminID)

			if !tt.ok {
				appErr, isApp := apperrors.As(err)
				require.True(t, isApp)
				assert.Equal(t, apperrors.CodeValidation, appErr.Code)
				repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, stored, got)
		})
	}
}

func TestService_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SettingRepository{}
	repo.On("SeedDefaults", ctx, mock.MatchedBy(func(d []models.SystemSetting) bool {
		return len(d) == 5
	})).Return(nil)
	svc := settings.NewService(repo, nil, testConfig(), zap.NewNop())

	require.NoError(t, svc.SeedDefaults(ctx))
	repo.AssertExpectations(t)
}
