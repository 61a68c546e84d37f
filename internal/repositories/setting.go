package repositories

import (
	"context"
	"time"

	"safetrade/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	List(ctx context.Context) ([]models.SystemSetting, error)
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	Upsert(ctx context.Context, setting *models.SystemSetting) error
	SeedDefaults(ctx context.Context, defaults []models.SystemSetting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := GetTx(ctx, r.db).Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	var s models.SystemSetting
	if err := GetTx(ctx, r.db).Where("setting_key = ?", key).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Upsert inserts the setting or overwrites the value of an existing key.
func (r *settingRepository) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	setting.UpdatedAt = time.Now()
	columns := []string{"setting_value", "updated_by", "updated_at"}
	if setting.Description != nil {
		columns = append(columns, "description")
	}
	return GetTx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(setting).Error
}

// SeedDefaults inserts defaults whose keys are missing and leaves edited values alone.
func (r *settingRepository) SeedDefaults(ctx context.Context, defaults []models.SystemSetting) error {
	if len(defaults) == 0 {
		return nil
	}
	return GetTx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoNothing: true,
	}).Create(&defaults).Error
}
