package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourneyhub/internal/model"
)

// SettingRepository defines key-value settings persistence.
type SettingRepository interface {
	// Get returns the stored value; gorm.ErrRecordNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	// Set upserts the value for key.
	Set(ctx context.Context, key, value string) error
	// SetIfAbsent writes the value only when the key has no row yet.
	SetIfAbsent(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository builds a GORM-backed repository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting model.Setting
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
}

func (r *settingRepository) SetIfAbsent(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&model.Setting{Key: key, Value: value}).Error
}
