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

type snapshotService struct {
	snapshotRepository store.SnapshotRepository
	validator          validators.Validator

	logger *logger.Logger
}

// NewSnapshotService returns the snapshot slot service. Snapshots are not
// published on the change feed.
func NewSnapshotService(snapshotRepository store.SnapshotRepository, logger *logger.Logger) SnapshotService {
	return &snapshotService{
		snapshotRepository: snapshotRepository,
		validator:          validators.NewRecordValidator(),
		logger:             logger,
	}
}

func (s *snapshotService) Get(ctx context.Context, ownerID, key string) (models.AppSnapshot, error) {
	snapshot, err := s.snapshotRepository.GetSnapshot(ctx, ownerID, key)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.AppSnapshot{}, ErrSnapshotNotFound
	}
	return snapshot, err
}

func (s *snapshotService) Save(ctx context.Context, snapshot models.AppSnapshot) (models.AppSnapshot, error) {
	if err := s.validator.Validate(ctx, snapshot); err != nil {
		return models.AppSnapshot{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	stored, err := s.snapshotRepository.UpsertSnapshot(ctx, snapshot)
	if err != nil {
		return models.AppSnapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("owner_id", stored.OwnerID).
		Str("key", stored.Key).
		Int64("version", stored.Version).
		Str("updated_by", stored.UpdatedBy).
		Msg("snapshot saved")

	return stored, nil
}
