package service

import (
	"context"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/models"
)

type logService struct {
	logRepository store.LogRepository
	publisher     ChangePublisher

	logger *logger.Logger
}

func NewLogService(logRepository store.LogRepository, publisher ChangePublisher, logger *logger.Logger) LogService {
	return &logService{
		logRepository: logRepository,
		publisher:     publisher,
		logger:        logger,
	}
}

func (s *logService) List(ctx context.Context, ownerID string) ([]models.MedicationLog, error) {
	return s.logRepository.ListLogs(ctx, ownerID)
}

// Upsert stores the log as it is kept remotely: no photo bytes and no local
// sync state.
func (s *logService) Upsert(ctx context.Context, log models.MedicationLog) (models.MedicationLog, error) {
	log.Photo = nil
	log.SyncState = models.SyncStateSynced

	inserted, err := s.logRepository.UpsertLog(ctx, log)
	if err != nil {
		return models.MedicationLog{}, fmt.Errorf("upsert log: %w", err)
	}

	publishWrite(ctx, s.publisher, models.TopicLogs, log.OwnerID, inserted, log)
	return log, nil
}
