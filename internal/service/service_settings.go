package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

type settingsService struct {
	settingsRepository store.SettingsRepository
	publisher          ChangePublisher
	validator          validators.Validator

	logger *logger.Logger
}

func NewSettingsService(settingsRepository store.SettingsRepository, publisher ChangePublisher, logger *logger.Logger) SettingsService {
	return &settingsService{
		settingsRepository: settingsRepository,
		publisher:          publisher,
		validator:          validators.NewRecordValidator(),
		logger:             logger,
	}
}

func (s *settingsService) Get(ctx context.Context, ownerID string) (models.UserSettings, error) {
	settings, err := s.settingsRepository.GetSettings(ctx, ownerID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.UserSettings{}, ErrSettingsNotFound
	}
	return settings, err
}

func (s *settingsService) Save(ctx context.Context, settings models.UserSettings) (models.UserSettings, error) {
	if err := s.validator.Validate(ctx, settings); err != nil {
		return models.UserSettings{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	inserted, err := s.settingsRepository.UpsertSettings(ctx, settings)
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("save settings: %w", err)
	}

	publishWrite(ctx, s.publisher, models.TopicSettings, settings.OwnerID, inserted, settings)
	return settings, nil
}
