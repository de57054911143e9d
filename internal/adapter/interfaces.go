package adapter

import (
	"context"

	"github.com/sevenoy/GeminiMeds/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore is the typed client of the remote store. Every call is scoped
// to the owner of the bearer token set with SetToken.
type RemoteStore interface {
	// SetToken stores the bearer token used by subsequent calls. An empty
	// token makes every call fail with [ErrUnauthorized].
	SetToken(token string)
	Token() string

	ListMedications(ctx context.Context) ([]models.Medication, error)
	UpsertMedication(ctx context.Context, medication models.Medication) error
	DeleteMedication(ctx context.Context, id string) error

	// ListLogs returns remote logs. They never carry photo bytes.
	ListLogs(ctx context.Context) ([]models.MedicationLog, error)
	// UpsertLog writes the log without its local photo bytes or sync state.
	UpsertLog(ctx context.Context, log models.MedicationLog) error

	// GetSnapshot returns [ErrNotFound] when the slot is empty.
	GetSnapshot(ctx context.Context, key string) (models.AppSnapshot, error)
	// UpsertSnapshot returns the stored record carrying the version the
	// remote store assigned.
	UpsertSnapshot(ctx context.Context, snapshot models.AppSnapshot) (models.AppSnapshot, error)

	GetSettings(ctx context.Context) (models.UserSettings, error)
	UpsertSettings(ctx context.Context, settings models.UserSettings) error

	// UploadPhoto stores data under its content hash and returns the
	// remote image path.
	UploadPhoto(ctx context.Context, hash string, data []byte) (models.PhotoRef, error)
}

// Feed opens live change subscriptions on the remote store.
type Feed interface {
	// Subscribe opens a change stream scoped to the owner of token.
	Subscribe(ctx context.Context, token string) (Subscription, error)
}

// Subscription is one open change stream.
type Subscription interface {
	// Events is closed when the stream ends, either because Close was
	// called or because the connection dropped.
	Events() <-chan models.ChangeEvent
	// Close releases the stream. It is safe to call more than once.
	Close() error
}
