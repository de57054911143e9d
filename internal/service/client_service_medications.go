package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

type clientMedicationService struct {
	local     store.LocalStore
	remote    adapter.RemoteStore
	session   ClientSessionService
	device    DeviceIdentity
	validator validators.Validator
	ids       *utils.IDGenerator

	now    func() time.Time
	logger *logger.Logger
}

// NewClientMedicationService returns the local mutation path for
// medications.
func NewClientMedicationService(
	local store.LocalStore,
	remote adapter.RemoteStore,
	session ClientSessionService,
	device DeviceIdentity,
	log *logger.Logger,
) ClientMedicationService {
	return &clientMedicationService{
		local:     local,
		remote:    remote,
		session:   session,
		device:    device,
		validator: validators.NewRecordValidator(),
		ids:       utils.NewIDGenerator(),
		now:       time.Now,
		logger:    log,
	}
}

func (s *clientMedicationService) List(ctx context.Context) ([]models.Medication, error) {
	return s.local.Medications().GetAll(ctx)
}

func (s *clientMedicationService) Get(ctx context.Context, id string) (models.Medication, error) {
	m, err := s.local.Medications().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.Medication{}, ErrMedicationNotFound
	}
	return m, err
}

func (s *clientMedicationService) Create(ctx context.Context, m models.Medication) (models.Medication, error) {
	if m.ID == "" {
		m.ID = s.ids.Generate()
	}
	if m.Accent == "" {
		m.Accent = models.AccentLime
	}
	m.Name = strings.TrimSpace(m.Name)

	now := s.now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.save(ctx, &m); err != nil {
		return models.Medication{}, err
	}
	return m, nil
}

func (s *clientMedicationService) Update(ctx context.Context, m models.Medication) (models.Medication, error) {
	current, err := s.Get(ctx, m.ID)
	if err != nil {
		return models.Medication{}, err
	}

	m.CreatedAt = current.CreatedAt
	m.UpdatedAt = s.now().UTC()
	m.Name = strings.TrimSpace(m.Name)
	if m.Accent == "" {
		m.Accent = current.Accent
	}

	if err := s.save(ctx, &m); err != nil {
		return models.Medication{}, err
	}
	return m, nil
}

func (s *clientMedicationService) save(ctx context.Context, m *models.Medication) error {
	deviceID, err := s.device.DeviceID(ctx)
	if err != nil {
		return err
	}
	m.DeviceID = deviceID
	if ownerID, ok := s.session.OwnerID(); ok {
		m.OwnerID = ownerID
	}

	err = s.validator.Validate(ctx, *m,
		validators.FieldID, validators.FieldName, validators.FieldScheduledTime, validators.FieldAccent)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return s.local.Medications().Upsert(ctx, *m)
}

func (s *clientMedicationService) Delete(ctx context.Context, id string) error {
	removedLogs, err := s.local.DeleteMedicationCascade(ctx, id)
	if err != nil {
		return fmt.Errorf("delete medication %s: %w", id, err)
	}

	log := loggerFor(ctx, s.logger)
	log.Info().Str("medication_id", id).Int64("logs_removed", removedLogs).Msg("medication deleted locally")

	if _, ok := s.session.OwnerID(); !ok {
		return nil
	}

	// the server stamps the cascade's change events with this device
	if deviceID, err := s.device.DeviceID(ctx); err == nil {
		ctx = utils.WithDeviceID(ctx, deviceID)
	}

	err = s.remote.DeleteMedication(ctx, id)
	switch {
	case errors.Is(err, adapter.ErrNotFound):
	case err != nil:
		log.Err(err).Str("func", "clientMedicationService.Delete").Str("medication_id", id).Msg("remote delete failed")
	}

	return nil
}
