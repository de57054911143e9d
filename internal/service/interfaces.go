package service

import (
	"context"

	"github.com/sevenoy/GeminiMeds/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// MedicationService serves the remote medications collection. Every call is
// scoped to one owner.
type MedicationService interface {
	List(ctx context.Context, ownerID string) ([]models.Medication, error)
	Upsert(ctx context.Context, medication models.Medication) (models.Medication, error)
	// Delete removes the medication and its logs. It returns
	// [ErrMedicationNotFound] for an unknown id.
	Delete(ctx context.Context, ownerID, id string) error
}

// LogService serves the remote medication logs collection.
type LogService interface {
	List(ctx context.Context, ownerID string) ([]models.MedicationLog, error)
	Upsert(ctx context.Context, log models.MedicationLog) (models.MedicationLog, error)
}

// SnapshotService serves the per-owner snapshot slots.
type SnapshotService interface {
	// Get returns [ErrSnapshotNotFound] for an empty slot.
	Get(ctx context.Context, ownerID, key string) (models.AppSnapshot, error)
	// Save stores the snapshot and returns it with its new version.
	Save(ctx context.Context, snapshot models.AppSnapshot) (models.AppSnapshot, error)
}

// SettingsService serves per-owner settings.
type SettingsService interface {
	// Get returns [ErrSettingsNotFound] when the owner saved none.
	Get(ctx context.Context, ownerID string) (models.UserSettings, error)
	Save(ctx context.Context, settings models.UserSettings) (models.UserSettings, error)
}

// PhotoService stores proof-of-intake images by content hash.
type PhotoService interface {
	// Upload verifies data against hash and stores it.
	Upload(ctx context.Context, ownerID, hash string, data []byte) (models.PhotoRef, error)
	Download(ctx context.Context, ownerID, hash string) ([]byte, error)
}

// AuthService issues and verifies bearer tokens. The token subject is the
// owner id.
type AuthService interface {
	CreateToken(ctx context.Context, ownerID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService reports the running server build.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// ChangePublisher fans committed writes out to the owner's change feed
// subscribers.
type ChangePublisher interface {
	Publish(ctx context.Context, event models.ChangeEvent)
}
