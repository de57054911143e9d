package store

import (
	"context"
	"fmt"

	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/migrations"
)

// NewClientStorages opens the SQLite file named by cfg.DB.DSN, applies the
// local schema and returns the Local Store Adapter over it.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (LocalStore, error) {
	log.Info().Msg("creating local store...")

	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := migrations.MigrateClient(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewSQLiteLocalStore(db, log), nil
}
