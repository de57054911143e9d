package store

import (
	"context"

	"github.com/sevenoy/GeminiMeds/models"
)

// Field names an indexed column usable in [Collection.GetWhere] and
// [Collection.DeleteWhere]. Each collection accepts only its own fields.
type Field string

const (
	FieldOwnerID      Field = "owner_id"
	FieldDeviceID     Field = "device_id"
	FieldMedicationID Field = "medication_id"
	FieldSyncState    Field = "sync_state"
	FieldSourceDevice Field = "source_device"
	FieldStatus       Field = "status"
)

// Collection is the typed access contract of one local collection.
//
// Single-record operations are atomic. Upsert with several items and
// BulkReplace are atomic as a whole: either every record lands or none does.
type Collection[T any] interface {
	// GetAll returns every record ordered by id.
	GetAll(ctx context.Context) ([]T, error)
	// GetByID returns [ErrRecordNotFound] when id is unknown.
	GetByID(ctx context.Context, id string) (T, error)
	// Upsert inserts or fully replaces records keyed by id.
	Upsert(ctx context.Context, items ...T) error
	// Delete removes a record; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteWhere removes every record whose field equals value and returns
	// the number of removed records.
	DeleteWhere(ctx context.Context, field Field, value any) (int64, error)
	// GetWhere returns every record whose field equals value.
	GetWhere(ctx context.Context, field Field, value any) ([]T, error)
	// BulkReplace clears the collection and inserts items.
	BulkReplace(ctx context.Context, items []T) error
}

// MedicationCollection is the local medications collection.
type MedicationCollection = Collection[models.Medication]

// LogCollection is the local medication logs collection.
type LogCollection = Collection[models.MedicationLog]

// MetaRepository is a small key-value table for install-scoped values such
// as the device id and the session token.
type MetaRepository interface {
	// Get returns [ErrRecordNotFound] when key is unset.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ChangeObserver is notified after a committed local write made by the user
// on this device. Writes made by the sync core do not notify.
type ChangeObserver func(ctx context.Context, topic models.Topic)

// LocalStore is the Local Store Adapter: both collections, install metadata
// and the multi-collection operations that must be transactional.
type LocalStore interface {
	Medications() MedicationCollection
	Logs() LogCollection
	Meta() MetaRepository

	// ReplaceAll clears both collections and inserts the given records in
	// one transaction. Used by snapshot restore.
	ReplaceAll(ctx context.Context, medications []models.Medication, logs []models.MedicationLog) error

	// DeleteMedicationCascade removes the medication and every log that
	// references it in one transaction. It returns the number of removed
	// logs.
	DeleteMedicationCascade(ctx context.Context, medicationID string) (int64, error)

	// DeleteOrphanLogs removes logs whose medication no longer exists.
	DeleteOrphanLogs(ctx context.Context) (int64, error)

	// Observe registers a local change observer.
	Observe(observer ChangeObserver)

	Close() error
}
