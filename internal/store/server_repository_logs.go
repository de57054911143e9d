package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

type logRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewLogRepository returns the Postgres medication log repository.
func NewLogRepository(db *DB, log *logger.Logger) LogRepository {
	return &logRepository{db: db, logger: log}
}

func scanServerLog(s rowScanner) (models.MedicationLog, error) {
	var l models.MedicationLog
	err := s.Scan(&l.OwnerID, &l.ID, &l.MedicationID, &l.TakenAt, &l.UploadedAt,
		&l.TimeSource, &l.Status, &l.ImagePath, &l.ImageHash, &l.SourceDevice)
	l.TakenAt = l.TakenAt.UTC()
	l.UploadedAt = l.UploadedAt.UTC()
	// the server copy is the synced state by definition
	l.SyncState = models.SyncStateSynced
	return l, err
}

func collectServerLogs(rows *sql.Rows) ([]models.MedicationLog, error) {
	defer rows.Close()

	result := make([]models.MedicationLog, 0)
	for rows.Next() {
		l, err := scanServerLog(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return result, nil
}

func (r *logRepository) ListLogs(ctx context.Context, ownerID string) ([]models.MedicationLog, error) {
	query, args, err := psql.Select(serverLogColumns...).
		From("medication_logs").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var result []models.MedicationLog
	err = r.db.withRetry(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		result, err = collectServerLogs(rows)
		return err
	})
	if err != nil {
		r.logger.Err(err).Str("func", "logRepository.ListLogs").Str("owner_id", ownerID).Msg("failed to list logs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return result, nil
}

func (r *logRepository) UpsertLog(ctx context.Context, l models.MedicationLog) (bool, error) {
	query, args, err := psql.Insert("medication_logs").
		Columns(serverLogColumns...).
		Values(l.OwnerID, l.ID, l.MedicationID, l.TakenAt.UTC(), l.UploadedAt.UTC(),
			string(l.TimeSource), string(l.Status), l.ImagePath, l.ImageHash, l.SourceDevice).
		Suffix(upsertLogSuffix).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var inserted bool
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&inserted)
	})
	if err != nil {
		r.logger.Err(err).
			Str("func", "logRepository.UpsertLog").
			Str("owner_id", l.OwnerID).
			Str("id", l.ID).
			Msg("failed to upsert log")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return inserted, nil
}
