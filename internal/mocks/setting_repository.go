package mocks

import (
	"context"

	"safetrade/internal/models"

	"github.com/stretchr/testify/mock"
)

type SettingRepository struct {
	mock.Mock
}

func (m *SettingRepository) List(ctx context.Context) ([]models.SystemSetting, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).([]models.SystemSetting)
	return settings, args.Error(1)
}

func (m *SettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	args := m.Called(ctx, key)
	s, _ := args.Get(0).(*models.SystemSetting)
	return s, args.Error(1)
}

func (m *SettingRepository) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *SettingRepository) SeedDefaults(ctx context.Context, defaults []models.SystemSetting) error {
	args := m.Called(ctx, defaults)
	return args.Error(0)
}
