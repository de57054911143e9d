package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

type medicationRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewMedicationRepository returns the Postgres medication repository.
func NewMedicationRepository(db *DB, log *logger.Logger) MedicationRepository {
	return &medicationRepository{db: db, logger: log}
}

func scanServerMedication(s rowScanner) (models.Medication, error) {
	var m models.Medication
	err := s.Scan(&m.OwnerID, &m.ID, &m.DeviceID, &m.Name, &m.Dosage,
		&m.ScheduledTime, &m.CreatedAt, &m.UpdatedAt, &m.Accent)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, err
}

func (r *medicationRepository) ListMedications(ctx context.Context, ownerID string) ([]models.Medication, error) {
	query, args, err := psql.Select(serverMedicationColumns...).
		From("medications").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var result []models.Medication
	err = r.db.withRetry(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = make([]models.Medication, 0)
		for rows.Next() {
			m, err := scanServerMedication(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			result = append(result, m)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Err(err).Str("func", "medicationRepository.ListMedications").Str("owner_id", ownerID).Msg("failed to list medications")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return result, nil
}

func (r *medicationRepository) UpsertMedication(ctx context.Context, m models.Medication) (bool, error) {
	query, args, err := psql.Insert("medications").
		Columns(serverMedicationColumns...).
		Values(m.OwnerID, m.ID, m.DeviceID, m.Name, m.Dosage,
			m.ScheduledTime, m.CreatedAt.UTC(), m.UpdatedAt.UTC(), string(m.Accent)).
		Suffix(upsertMedicationSuffix).
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
			Str("func", "medicationRepository.UpsertMedication").
			Str("owner_id", m.OwnerID).
			Str("id", m.ID).
			Msg("failed to upsert medication")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return inserted, nil
}

func (r *medicationRepository) DeleteMedication(ctx context.Context, ownerID, id string) (models.Medication, []models.MedicationLog, error) {
	var (
		deleted models.Medication
		logs    []models.MedicationLog
	)

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, deleteServerLogsByMedication, ownerID, id)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		logs, err = collectServerLogs(rows)
		if err != nil {
			return err
		}

		deleted, err = scanServerMedication(tx.QueryRowContext(ctx, deleteServerMedication, ownerID, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: medication %s", ErrRecordNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrRecordNotFound) {
			r.logger.Err(err).
				Str("func", "medicationRepository.DeleteMedication").
				Str("owner_id", ownerID).
				Str("id", id).
				Msg("failed to delete medication")
		}
		return models.Medication{}, nil, err
	}

	return deleted, logs, nil
}
