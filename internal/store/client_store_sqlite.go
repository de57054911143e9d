package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

const (
	deleteLogsByMedication = `DELETE FROM medication_logs WHERE medication_id = ?;`
	deleteMedicationByID   = `DELETE FROM medications WHERE id = ?;`
	deleteOrphanLogs       = `DELETE FROM medication_logs
		WHERE medication_id NOT IN (SELECT id FROM medications);`

	getMeta    = `SELECT value FROM meta WHERE key = ?;`
	setMeta    = `INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`
	deleteMeta = `DELETE FROM meta WHERE key = ?;`
)

type sqliteLocalStore struct {
	db          *DB
	medications *sqliteCollection[models.Medication]
	logs        *sqliteCollection[models.MedicationLog]
	meta        *sqliteMetaRepository
	observers   observers
	logger      *logger.Logger
}

// NewSQLiteLocalStore wires the local collections over an open and migrated
// SQLite handle.
func NewSQLiteLocalStore(db *DB, log *logger.Logger) LocalStore {
	s := &sqliteLocalStore{
		db:     db,
		meta:   &sqliteMetaRepository{db: db},
		logger: log,
	}
	s.medications = newSQLiteCollection(db, medicationsTable, s.observers.notify)
	s.logs = newSQLiteCollection(db, logsTable, s.observers.notify)

	return s
}

func (s *sqliteLocalStore) Medications() MedicationCollection { return s.medications }
func (s *sqliteLocalStore) Logs() LogCollection               { return s.logs }
func (s *sqliteLocalStore) Meta() MetaRepository              { return s.meta }

func (s *sqliteLocalStore) Observe(observer ChangeObserver) {
	s.observers.add(observer)
}

func (s *sqliteLocalStore) ReplaceAll(ctx context.Context, medications []models.Medication, logs []models.MedicationLog) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		// logs first so the medications delete never leaves orphans behind
		if err := s.logs.bind(tx).replace(ctx, logs); err != nil {
			return err
		}
		return s.medications.bind(tx).replace(ctx, medications)
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqliteLocalStore.ReplaceAll").
			Int("medications", len(medications)).
			Int("logs", len(logs)).
			Msg("local store replace rolled back")
		return err
	}

	s.observers.notify(ctx, models.TopicMedications)
	s.observers.notify(ctx, models.TopicLogs)
	return nil
}

func (s *sqliteLocalStore) DeleteMedicationCascade(ctx context.Context, medicationID string) (int64, error) {
	var removed int64

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteLogsByMedication, medicationID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		removed, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, deleteMedicationByID, medicationID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqliteLocalStore.DeleteMedicationCascade").
			Str("medication_id", medicationID).
			Msg("failed to delete medication with its logs")
		return 0, err
	}

	s.observers.notify(ctx, models.TopicMedications)
	if removed > 0 {
		s.observers.notify(ctx, models.TopicLogs)
	}
	return removed, nil
}

func (s *sqliteLocalStore) DeleteOrphanLogs(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteOrphanLogs)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqliteLocalStore.DeleteOrphanLogs").
			Msg("failed to delete orphaned logs")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	removed, _ := res.RowsAffected()
	if removed > 0 {
		s.observers.notify(ctx, models.TopicLogs)
	}
	return removed, nil
}

func (s *sqliteLocalStore) Close() error {
	return s.db.Close()
}

type sqliteMetaRepository struct {
	db *DB
}

func (r *sqliteMetaRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, getMeta, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: meta %s", ErrRecordNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return value, nil
}

func (r *sqliteMetaRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, setMeta, key, value); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqliteMetaRepository.Set").
			Str("key", key).
			Msg("failed to store meta value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *sqliteMetaRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, deleteMeta, key); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
