package service

import (
	"context"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

// MedicationServiceWrapper decorates a MedicationService, e.g. with
// validation.
type MedicationServiceWrapper interface {
	Wrap(MedicationService) MedicationService
}

// LogServiceWrapper decorates a LogService.
type LogServiceWrapper interface {
	Wrap(LogService) LogService
}

// MedicationValidationService rejects malformed medications before they
// reach the wrapped service.
type MedicationValidationService struct {
	MedicationService
	validator validators.Validator
}

func NewMedicationValidationService() MedicationServiceWrapper {
	return &MedicationValidationService{validator: validators.NewRecordValidator()}
}

func (v *MedicationValidationService) Upsert(ctx context.Context, medication models.Medication) (models.Medication, error) {
	if err := v.validator.Validate(ctx, medication); err != nil {
		return models.Medication{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.MedicationService.Upsert(ctx, medication)
}

func (v *MedicationValidationService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" || id == "" {
		return ErrInvalidDataProvided
	}

	return v.MedicationService.Delete(ctx, ownerID, id)
}

func (v *MedicationValidationService) Wrap(inner MedicationService) MedicationService {
	v.MedicationService = inner
	return v
}

// LogValidationService rejects malformed logs before they reach the wrapped
// service.
type LogValidationService struct {
	LogService
	validator validators.Validator
}

func NewLogValidationService() LogServiceWrapper {
	return &LogValidationService{validator: validators.NewRecordValidator()}
}

func (v *LogValidationService) Upsert(ctx context.Context, log models.MedicationLog) (models.MedicationLog, error) {
	if err := v.validator.Validate(ctx, log); err != nil {
		return models.MedicationLog{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.LogService.Upsert(ctx, log)
}

func (v *LogValidationService) Wrap(inner LogService) LogService {
	v.LogService = inner
	return v
}
