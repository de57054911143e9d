package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidOwnerID       = errors.New("invalid owner id")
	ErrInvalidMedicationID  = errors.New("invalid medication id")
	ErrEmptyName            = errors.New("name is required")
	ErrInvalidScheduledTime = errors.New("scheduled time must be HH:mm")
	ErrInvalidAccent        = errors.New("invalid accent")
	ErrInvalidTakenAt       = errors.New("taken at is required")
	ErrInvalidTimeSource    = errors.New("invalid time source")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidImageHash     = errors.New("image hash must be a hex encoded sha-256")
	ErrInvalidSyncState     = errors.New("invalid sync state")
	ErrInvalidReminder      = errors.New("reminder advance must not be negative")
	ErrInvalidSnapshotKey   = errors.New("invalid snapshot key")
	ErrInvalidPayload       = errors.New("snapshot payload must be a JSON object")
)
