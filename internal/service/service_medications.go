package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/models"
)

type medicationService struct {
	medicationRepository store.MedicationRepository
	publisher            ChangePublisher

	logger *logger.Logger
}

func NewMedicationService(medicationRepository store.MedicationRepository, publisher ChangePublisher, logger *logger.Logger) MedicationService {
	return &medicationService{
		medicationRepository: medicationRepository,
		publisher:            publisher,
		logger:               logger,
	}
}

func (m *medicationService) List(ctx context.Context, ownerID string) ([]models.Medication, error) {
	return m.medicationRepository.ListMedications(ctx, ownerID)
}

func (m *medicationService) Upsert(ctx context.Context, medication models.Medication) (models.Medication, error) {
	inserted, err := m.medicationRepository.UpsertMedication(ctx, medication)
	if err != nil {
		return models.Medication{}, fmt.Errorf("upsert medication: %w", err)
	}

	publishWrite(ctx, m.publisher, models.TopicMedications, medication.OwnerID, inserted, medication)
	return medication, nil
}

func (m *medicationService) Delete(ctx context.Context, ownerID, id string) error {
	medication, logs, err := m.medicationRepository.DeleteMedication(ctx, ownerID, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return ErrMedicationNotFound
	}
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("owner_id", ownerID).
		Str("medication_id", id).
		Int("logs_removed", len(logs)).
		Msg("medication deleted")

	publishDelete(ctx, m.publisher, models.TopicMedications, ownerID, medication)
	for _, l := range logs {
		publishDelete(ctx, m.publisher, models.TopicLogs, ownerID, l)
	}
	return nil
}
