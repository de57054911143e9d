package validators

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/sevenoy/GeminiMeds/models"
)

// Field names accepted by [RecordValidator.Validate].
const (
	FieldID            = "id"
	FieldOwnerID       = "owner_id"
	FieldName          = "name"
	FieldScheduledTime = "scheduled_time"
	FieldAccent        = "accent"
	FieldMedicationID  = "medication_id"
	FieldTakenAt       = "taken_at"
	FieldTimeSource    = "time_source"
	FieldStatus        = "status"
	FieldImageHash     = "image_hash"
	FieldSyncState     = "sync_state"
	FieldReminder      = "reminder_advance_minutes"
	FieldKey           = "key"
	FieldPayload       = "payload"
)

// ScheduledTimeLayout is the layout of Medication.ScheduledTime.
const ScheduledTimeLayout = "15:04"

// RecordValidator validates the synced records. Without explicit fields
// every rule of the record type is checked.
type RecordValidator struct{}

func NewRecordValidator() Validator {
	return &RecordValidator{}
}

func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Medication:
		return v.validateMedication(value, fields...)
	case *models.Medication:
		return v.validateMedication(*value, fields...)

	case models.MedicationLog:
		return v.validateLog(value, fields...)
	case *models.MedicationLog:
		return v.validateLog(*value, fields...)

	case models.UserSettings:
		return v.validateSettings(value, fields...)
	case *models.UserSettings:
		return v.validateSettings(*value, fields...)

	case models.AppSnapshot:
		return v.validateSnapshot(value, fields...)
	case *models.AppSnapshot:
		return v.validateSnapshot(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateMedication(m models.Medication, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldOwnerID, FieldName, FieldScheduledTime, FieldAccent}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if m.ID == "" {
				return ErrInvalidID
			}
		case FieldOwnerID:
			if m.OwnerID == "" {
				return ErrInvalidOwnerID
			}
		case FieldName:
			if m.Name == "" {
				return ErrEmptyName
			}
		case FieldScheduledTime:
			if _, err := time.Parse(ScheduledTimeLayout, m.ScheduledTime); err != nil {
				return ErrInvalidScheduledTime
			}
		case FieldAccent:
			if !m.Accent.Valid() {
				return ErrInvalidAccent
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateLog(l models.MedicationLog, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldOwnerID, FieldMedicationID, FieldTakenAt, FieldTimeSource, FieldStatus, FieldImageHash}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if l.ID == "" {
				return ErrInvalidID
			}
		case FieldOwnerID:
			if l.OwnerID == "" {
				return ErrInvalidOwnerID
			}
		case FieldMedicationID:
			if l.MedicationID == "" {
				return ErrInvalidMedicationID
			}
		case FieldTakenAt:
			if l.TakenAt.IsZero() {
				return ErrInvalidTakenAt
			}
		case FieldTimeSource:
			if !l.TimeSource.Valid() {
				return ErrInvalidTimeSource
			}
		case FieldStatus:
			if !l.Status.Valid() {
				return ErrInvalidStatus
			}
		case FieldImageHash:
			if l.ImageHash == "" {
				continue
			}
			if b, err := hex.DecodeString(l.ImageHash); err != nil || len(b) != 32 {
				return ErrInvalidImageHash
			}
		case FieldSyncState:
			if !l.SyncState.Valid() {
				return ErrInvalidSyncState
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateSettings(s models.UserSettings, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldReminder}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if s.OwnerID == "" {
				return ErrInvalidOwnerID
			}
		case FieldReminder:
			if s.ReminderAdvanceMinutes < 0 {
				return ErrInvalidReminder
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateSnapshot(s models.AppSnapshot, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldKey, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if s.OwnerID == "" {
				return ErrInvalidOwnerID
			}
		case FieldKey:
			if s.Key == "" || len(s.Key) > 64 {
				return ErrInvalidSnapshotKey
			}
		case FieldPayload:
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(s.Payload, &obj); err != nil {
				return ErrInvalidPayload
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
