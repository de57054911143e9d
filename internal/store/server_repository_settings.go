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

type settingsRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSettingsRepository returns the Postgres user settings repository.
func NewSettingsRepository(db *DB, log *logger.Logger) SettingsRepository {
	return &settingsRepository{db: db, logger: log}
}

func (r *settingsRepository) GetSettings(ctx context.Context, ownerID string) (models.UserSettings, error) {
	query, args, err := psql.Select(serverSettingsColumns...).
		From("user_settings").
		Where(sq.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var s models.UserSettings
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(
			&s.OwnerID, &s.Theme, &s.NotificationsEnabled, &s.ReminderAdvanceMinutes,
			&s.AvatarURL, &s.DisplayName, &s.DeviceID, &s.UpdatedAt,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserSettings{}, fmt.Errorf("%w: settings of %s", ErrRecordNotFound, ownerID)
	}
	if err != nil {
		r.logger.Err(err).Str("func", "settingsRepository.GetSettings").Str("owner_id", ownerID).Msg("failed to read settings")
		return models.UserSettings{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func (r *settingsRepository) UpsertSettings(ctx context.Context, s models.UserSettings) (bool, error) {
	query, args, err := psql.Insert("user_settings").
		Columns(serverSettingsColumns...).
		Values(s.OwnerID, s.Theme, s.NotificationsEnabled, s.ReminderAdvanceMinutes,
			s.AvatarURL, s.DisplayName, s.DeviceID, s.UpdatedAt.UTC()).
		Suffix(upsertSettingsSuffix).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var inserted bool
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&inserted)
	})
	if err != nil {
		r.logger.Err(err).Str("func", "settingsRepository.UpsertSettings").Str("owner_id", s.OwnerID).Msg("failed to upsert settings")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return inserted, nil
}
