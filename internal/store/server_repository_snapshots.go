package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

type snapshotRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSnapshotRepository returns the Postgres snapshot repository.
func NewSnapshotRepository(db *DB, log *logger.Logger) SnapshotRepository {
	return &snapshotRepository{db: db, logger: log}
}

func (r *snapshotRepository) GetSnapshot(ctx context.Context, ownerID, key string) (models.AppSnapshot, error) {
	var s models.AppSnapshot

	err := r.db.withRetry(ctx, func() error {
		var payload []byte
		err := r.db.QueryRowContext(ctx, getSnapshot, ownerID, key).
			Scan(&s.OwnerID, &s.Key, &payload, &s.Version, &s.UpdatedBy, &s.UpdatedAt)
		s.Payload = payload
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.AppSnapshot{}, fmt.Errorf("%w: snapshot %s", ErrRecordNotFound, key)
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "snapshotRepository.GetSnapshot").
			Str("owner_id", ownerID).
			Str("key", key).
			Msg("failed to read snapshot")
		return models.AppSnapshot{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func (r *snapshotRepository) UpsertSnapshot(ctx context.Context, s models.AppSnapshot) (models.AppSnapshot, error) {
	err := r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, upsertSnapshot, s.OwnerID, s.Key, []byte(s.Payload), s.UpdatedBy).
			Scan(&s.Version, &s.UpdatedAt)
	})
	if err != nil {
		r.logger.Err(err).
			Str("func", "snapshotRepository.UpsertSnapshot").
			Str("owner_id", s.OwnerID).
			Str("key", s.Key).
			Msg("failed to store snapshot")
		return models.AppSnapshot{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
