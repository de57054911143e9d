package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

// DefaultSettings are returned until the owner saves settings.
var DefaultSettings = models.UserSettings{
	Theme:                "light",
	NotificationsEnabled: true,
}

type clientSettingsService struct {
	meta      store.MetaRepository
	remote    adapter.RemoteStore
	session   ClientSessionService
	device    DeviceIdentity
	gate      *echo.Gate
	validator validators.Validator

	now    func() time.Time
	logger *logger.Logger
}

func NewClientSettingsService(
	meta store.MetaRepository,
	remote adapter.RemoteStore,
	session ClientSessionService,
	device DeviceIdentity,
	gate *echo.Gate,
	log *logger.Logger,
) ClientSettingsService {
	return &clientSettingsService{
		meta:      meta,
		remote:    remote,
		session:   session,
		device:    device,
		gate:      gate,
		validator: validators.NewRecordValidator(),
		now:       time.Now,
		logger:    log,
	}
}

func (s *clientSettingsService) Get(ctx context.Context) (models.UserSettings, error) {
	raw, err := s.meta.Get(ctx, store.MetaUserSettings)
	if errors.Is(err, store.ErrRecordNotFound) {
		return DefaultSettings, nil
	}
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("read settings: %w", err)
	}

	var settings models.UserSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.UserSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (s *clientSettingsService) Save(ctx context.Context, settings models.UserSettings) (models.UserSettings, error) {
	if err := s.validator.Validate(ctx, settings, validators.FieldReminder); err != nil {
		return models.UserSettings{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	deviceID, err := s.device.DeviceID(ctx)
	if err != nil {
		return models.UserSettings{}, err
	}
	settings.DeviceID = deviceID
	settings.UpdatedAt = s.now().UTC()

	ownerID, signedIn := s.session.OwnerID()
	if signedIn {
		settings.OwnerID = ownerID
	}

	if err := s.Apply(ctx, settings); err != nil {
		return models.UserSettings{}, err
	}

	if signedIn {
		if err := s.remote.UpsertSettings(ctx, settings); err != nil {
			loggerFor(ctx, s.logger).Err(err).Str("func", "clientSettingsService.Save").Msg("failed to push settings")
		}
	}

	return settings, nil
}

func (s *clientSettingsService) Reload(ctx context.Context) (bool, error) {
	if _, ok := s.session.OwnerID(); !ok {
		return false, nil
	}

	settings, err := s.remote.GetSettings(ctx)
	if errors.Is(err, adapter.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetch settings: %w", err)
	}

	err = s.gate.Run(ctx, func(ctx context.Context) error {
		return s.Apply(ctx, settings)
	})
	return err == nil, err
}

func (s *clientSettingsService) Apply(ctx context.Context, settings models.UserSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := s.meta.Set(ctx, store.MetaUserSettings, string(raw)); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	return nil
}
