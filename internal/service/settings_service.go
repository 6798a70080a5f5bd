package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tourneyhub/internal/cache"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

const settingCacheTTL = 30 * time.Second

// SettingsService exposes the settings flag store. An absent
// registration_open key reads as closed, never open.
type SettingsService interface {
	// RegistrationOpen is the authoritative flag read used before mutations.
	RegistrationOpen(ctx context.Context) (bool, error)
	// RegistrationOpenCached serves public display reads through the
	// fail-safe cache; toggling invalidates it.
	RegistrationOpenCached(ctx context.Context) (bool, error)
	SetRegistrationOpen(ctx context.Context, open bool) error
	EntryFee(ctx context.Context) (string, error)
	SetEntryFee(ctx context.Context, fee string) error
}

type settingsService struct {
	repo  repository.SettingRepository
	cache *cache.Client
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo repository.SettingRepository, cache *cache.Client) SettingsService {
	return &settingsService{repo: repo, cache: cache}
}

func settingCacheKey(key string) string {
	return "setting:" + key
}

func (s *settingsService) RegistrationOpen(ctx context.Context) (bool, error) {
	value, err := s.repo.Get(ctx, model.SettingRegistrationOpen)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Absent flag fails safe to closed.
			return false, nil
		}
		return false, fmt.Errorf("get registration flag: %w", err)
	}
	return value == "true", nil
}

func (s *settingsService) RegistrationOpenCached(ctx context.Context) (bool, error) {
	key := settingCacheKey(model.SettingRegistrationOpen)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		return string(data) == "true", nil
	}

	open, err := s.RegistrationOpen(ctx)
	if err != nil {
		return false, err
	}

	value := "false"
	if open {
		value = "true"
	}
	_ = s.cache.Set(ctx, key, []byte(value), settingCacheTTL)

	return open, nil
}

func (s *settingsService) SetRegistrationOpen(ctx context.Context, open bool) error {
	value := "false"
	if open {
		value = "true"
	}
	if err := s.repo.Set(ctx, model.SettingRegistrationOpen, value); err != nil {
		return fmt.Errorf("set registration flag: %w", err)
	}

	// Write-through invalidation so the public read observes the toggle.
	_ = s.cache.Delete(ctx, settingCacheKey(model.SettingRegistrationOpen))

	return nil
}

func (s *settingsService) EntryFee(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, model.SettingEntryFee)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get entry fee: %w", err)
	}
	return value, nil
}

func (s *settingsService) SetEntryFee(ctx context.Context, fee string) error {
	amount, err := decimal.NewFromString(fee)
	if err != nil {
		return apperrors.NewValidation("Entry fee must be a valid amount")
	}
	if amount.IsNegative() {
		return apperrors.NewValidation("Entry fee cannot be negative")
	}

	if err := s.repo.Set(ctx, model.SettingEntryFee, amount.String()); err != nil {
		return fmt.Errorf("set entry fee: %w", err)
	}
	return nil
}
