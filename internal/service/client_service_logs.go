package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

// MaxPhotoSize bounds the photo payload accepted for one log.
const MaxPhotoSize = 8 << 20

type clientLogService struct {
	local     store.LocalStore
	session   ClientSessionService
	device    DeviceIdentity
	validator validators.Validator
	ids       *utils.IDGenerator

	now    func() time.Time
	logger *logger.Logger
}

func NewClientLogService(local store.LocalStore, session ClientSessionService, device DeviceIdentity, log *logger.Logger) ClientLogService {
	return &clientLogService{
		local:     local,
		session:   session,
		device:    device,
		validator: validators.NewRecordValidator(),
		ids:       utils.NewIDGenerator(),
		now:       time.Now,
		logger:    log,
	}
}

func (s *clientLogService) Record(ctx context.Context, input LogInput) (models.MedicationLog, error) {
	if len(input.Photo) > MaxPhotoSize {
		return models.MedicationLog{}, ErrPhotoTooLarge
	}

	medication, err := s.local.Medications().GetByID(ctx, input.MedicationID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.MedicationLog{}, ErrMedicationNotFound
	}
	if err != nil {
		return models.MedicationLog{}, fmt.Errorf("read medication: %w", err)
	}

	deviceID, err := s.device.DeviceID(ctx)
	if err != nil {
		return models.MedicationLog{}, err
	}

	now := s.now().UTC()
	l := models.MedicationLog{
		ID:           s.ids.Generate(),
		MedicationID: medication.ID,
		TakenAt:      input.TakenAt,
		UploadedAt:   now,
		TimeSource:   input.TimeSource,
		SourceDevice: deviceID,
		SyncState:    models.SyncStateDirty,
	}
	if l.TakenAt.IsZero() {
		l.TakenAt = now
		l.TimeSource = models.TimeSourceSystem
	}
	if l.TimeSource == "" {
		l.TimeSource = models.TimeSourceSystem
	}
	if ownerID, ok := s.session.OwnerID(); ok {
		l.OwnerID = ownerID
	}
	if len(input.Photo) > 0 {
		l.Photo = input.Photo
		l.ImageHash = utils.ContentHash(input.Photo)
	}

	l.Status, err = ComputeLogStatus(medication.ScheduledTime, l.TakenAt, l.TimeSource)
	if err != nil {
		return models.MedicationLog{}, err
	}

	err = s.validator.Validate(ctx, l,
		validators.FieldID, validators.FieldMedicationID, validators.FieldTakenAt,
		validators.FieldTimeSource, validators.FieldStatus, validators.FieldImageHash)
	if err != nil {
		return models.MedicationLog{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err := s.local.Logs().Upsert(ctx, l); err != nil {
		return models.MedicationLog{}, err
	}

	loggerFor(ctx, s.logger).Debug().
		Str("log_id", l.ID).
		Str("medication_id", l.MedicationID).
		Str("status", string(l.Status)).
		Msg("intake recorded")

	return l, nil
}

func (s *clientLogService) List(ctx context.Context) ([]models.MedicationLog, error) {
	return s.local.Logs().GetAll(ctx)
}

func (s *clientLogService) ListForMedication(ctx context.Context, medicationID string) ([]models.MedicationLog, error) {
	return s.local.Logs().GetWhere(ctx, store.FieldMedicationID, medicationID)
}
