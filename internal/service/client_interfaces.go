package service

import (
	"context"
	"time"

	"github.com/sevenoy/GeminiMeds/models"
)

// ClientSessionService owns the local session: the bearer token persisted in
// the local store and the owner id read from its subject.
type ClientSessionService interface {
	// Restore loads a persisted token into the remote adapter. It reports
	// whether a session was found.
	Restore(ctx context.Context) (bool, error)

	// SignIn validates the token shape, persists it and returns its owner.
	SignIn(ctx context.Context, token string) (string, error)

	// SignOut forgets the token. It is a no-op without a session.
	SignOut(ctx context.Context) error

	// OwnerID returns the current owner and whether there is one.
	OwnerID() (string, bool)
}

// DeviceIdentity resolves the per-install device identifier.
type DeviceIdentity interface {
	// DeviceID returns the persisted identifier, creating it on first use.
	DeviceID(ctx context.Context) (string, error)
}

// ClientSyncService reconciles the local store with the remote store.
//
// Push, pull and full sync return a [models.SyncReport] whose Status tells
// whether they ran. Without an owner they are skipped with
// [models.SyncSkippedUnauthenticated]; while another sync-class operation
// runs they are skipped with [models.SyncSkippedInFlight].
type ClientSyncService interface {
	// PushLocalChanges upserts every medication and every dirty log to the
	// remote store. A failed record is logged and left for the next cycle.
	PushLocalChanges(ctx context.Context) (models.SyncReport, error)

	// PullRemoteChanges overwrites local records with the remote ones,
	// last writer wins, then drops orphaned logs. Pulled logs are synced.
	PullRemoteChanges(ctx context.Context) (models.SyncReport, error)

	// FullSync runs a pull followed by a push under one in-flight slot.
	FullSync(ctx context.Context) (models.SyncReport, error)

	// CloudSaveV2 uploads a snapshot of the full local state. Failures are
	// reported in the result, never retried.
	CloudSaveV2(ctx context.Context) models.SaveResult

	// CloudLoadV2 returns the remote snapshot payload or
	// [ErrSnapshotNotFound]. It does not touch the local store.
	CloudLoadV2(ctx context.Context) (models.SnapshotPayload, error)

	// ApplySnapshot replaces both local collections with the payload in one
	// transaction. It is destructive.
	ApplySnapshot(ctx context.Context, payload models.SnapshotPayload) error
}

// ClientMedicationService is the local mutation path for medications.
type ClientMedicationService interface {
	List(ctx context.Context) ([]models.Medication, error)
	Get(ctx context.Context, id string) (models.Medication, error)
	Create(ctx context.Context, medication models.Medication) (models.Medication, error)
	// Update replaces the whole record. ID and CreatedAt are kept.
	Update(ctx context.Context, medication models.Medication) (models.Medication, error)
	// Delete removes the medication with its logs locally and, when signed
	// in, remotely. A failed remote delete is only logged.
	Delete(ctx context.Context, id string) error
}

// LogInput describes a new intake.
type LogInput struct {
	MedicationID string
	// TakenAt defaults to the current time with a system time source.
	TakenAt    time.Time
	TimeSource models.TimeSource
	Photo      []byte
}

// ClientLogService is the local mutation path for medication logs.
type ClientLogService interface {
	// Record stores a new dirty log. The parent medication must exist.
	Record(ctx context.Context, input LogInput) (models.MedicationLog, error)
	List(ctx context.Context) ([]models.MedicationLog, error)
	ListForMedication(ctx context.Context, medicationID string) ([]models.MedicationLog, error)
}

// ClientSettingsService keeps the owner's settings in the local meta table
// and mirrors them to the remote store.
type ClientSettingsService interface {
	// Get returns the local settings or defaults.
	Get(ctx context.Context) (models.UserSettings, error)
	// Save stores settings locally and pushes them when signed in.
	Save(ctx context.Context, settings models.UserSettings) (models.UserSettings, error)
	// Reload replaces the local settings with the remote copy. It reports
	// whether anything was applied.
	Reload(ctx context.Context) (bool, error)
	// Apply stores settings received from remote state without pushing
	// them back.
	Apply(ctx context.Context, settings models.UserSettings) error
}

// ClientSyncJob runs FullSync periodically and on demand.
type ClientSyncJob interface {
	// Start launches the background loop. interval defaults to 5 minutes
	// when not positive. A running loop is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Trigger asks for a sync as soon as possible. Requests made while one
	// is pending collapse into it.
	Trigger()

	// Stop ends the loop and waits for it. Safe to call repeatedly.
	Stop()
}
