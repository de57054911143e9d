package store

import (
	"context"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/migrations"
)

// Storages groups the server repositories sharing one Postgres handle.
type Storages struct {
	Medications MedicationRepository
	Logs        LogRepository
	Snapshots   SnapshotRepository
	Settings    SettingsRepository

	db *DB
}

// NewStorages connects to Postgres, applies the remote schema and builds the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating remote storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := migrations.MigrateServer(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStorages(db, log), nil
}

func newStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Medications: NewMedicationRepository(db, log),
		Logs:        NewLogRepository(db, log),
		Snapshots:   NewSnapshotRepository(db, log),
		Settings:    NewSettingsRepository(db, log),
		db:          db,
	}
}

// Ping checks the database connection.
func (s *Storages) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
