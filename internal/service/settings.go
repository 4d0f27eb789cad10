package service

import (
	"context"

	"github.com/dukerupert/festa/internal/domain"
)

// SettingsService reads and saves the store settings. Values the admin has
// not set yet fall back to the configured defaults.
type SettingsService interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
	Save(ctx context.Context, settings *domain.StoreSettings) error
}

type settingsService struct {
	repo     domain.SettingsRepository
	defaults domain.StoreSettings
}

// NewSettingsService creates a new SettingsService instance
func NewSettingsService(repo domain.SettingsRepository, defaults domain.StoreSettings) SettingsService {
	return &settingsService{repo: repo, defaults: defaults}
}

func (s *settingsService) Get(ctx context.Context) (*domain.StoreSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.StoreName == "" {
		settings.StoreName = s.defaults.StoreName
	}
	if settings.WhatsAppPhone == "" {
		settings.WhatsAppPhone = s.defaults.WhatsAppPhone
	}
	if settings.Greeting == "" {
		settings.Greeting = s.defaults.Greeting
	}
	return settings, nil
}

func (s *settingsService) Save(ctx context.Context, settings *domain.StoreSettings) error {
	settings.WhatsAppPhone = normalizePhone(settings.WhatsAppPhone)
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, settings)
}
