package store

import (
	"context"

	"github.com/sevenoy/GeminiMeds/models"
)

//go:generate mockgen -source=server_interfaces.go -destination=../mock/server_store_mock.go -package=mock

// MedicationRepository persists medications of every owner on the server.
type MedicationRepository interface {
	ListMedications(ctx context.Context, ownerID string) ([]models.Medication, error)
	// UpsertMedication inserts or overwrites the record keyed by
	// (OwnerID, ID). The last write wins. inserted is false when an
	// existing row was replaced.
	UpsertMedication(ctx context.Context, medication models.Medication) (inserted bool, err error)
	// DeleteMedication removes the medication and its logs in one
	// transaction and returns the deleted logs.
	DeleteMedication(ctx context.Context, ownerID, id string) (models.Medication, []models.MedicationLog, error)
}

// LogRepository persists medication logs on the server.
type LogRepository interface {
	ListLogs(ctx context.Context, ownerID string) ([]models.MedicationLog, error)
	UpsertLog(ctx context.Context, log models.MedicationLog) (inserted bool, err error)
}

// SnapshotRepository persists named full-state snapshots.
type SnapshotRepository interface {
	// GetSnapshot returns [ErrRecordNotFound] when the slot is empty.
	GetSnapshot(ctx context.Context, ownerID, key string) (models.AppSnapshot, error)
	// UpsertSnapshot stores the payload and returns the record with the
	// version assigned by the database: 1 for a new slot, previous + 1
	// otherwise.
	UpsertSnapshot(ctx context.Context, snapshot models.AppSnapshot) (models.AppSnapshot, error)
}

// SettingsRepository persists per-owner settings.
type SettingsRepository interface {
	// GetSettings returns [ErrRecordNotFound] when the owner has none.
	GetSettings(ctx context.Context, ownerID string) (models.UserSettings, error)
	UpsertSettings(ctx context.Context, settings models.UserSettings) (inserted bool, err error)
}
