package store

import (
	"github.com/sevenoy/GeminiMeds/models"
)

// Meta keys.
const (
	MetaDeviceID     = "device_id"
	MetaSessionToken = "session_token"
	MetaUserSettings = "user_settings"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// tableDef describes how a model maps onto a local table. filters lists the
// fields a collection may be queried by, with an accessor used by the
// in-memory store.
type tableDef[T any] struct {
	table   string
	topic   models.Topic
	columns []string
	filters map[Field]func(T) any
	id      func(T) string
	values  func(T) []any
	scan    func(rowScanner) (T, error)
}

var medicationsTable = tableDef[models.Medication]{
	table: "medications",
	topic: models.TopicMedications,
	columns: []string{
		"id", "owner_id", "device_id", "name", "dosage",
		"scheduled_time", "created_at", "updated_at", "accent",
	},
	filters: map[Field]func(models.Medication) any{
		FieldOwnerID:  func(m models.Medication) any { return m.OwnerID },
		FieldDeviceID: func(m models.Medication) any { return m.DeviceID },
	},
	id: func(m models.Medication) string { return m.ID },
	values: func(m models.Medication) []any {
		return []any{
			m.ID, m.OwnerID, m.DeviceID, m.Name, m.Dosage,
			m.ScheduledTime, m.CreatedAt.UTC(), m.UpdatedAt.UTC(), string(m.Accent),
		}
	},
	scan: func(s rowScanner) (models.Medication, error) {
		var m models.Medication
		err := s.Scan(
			&m.ID, &m.OwnerID, &m.DeviceID, &m.Name, &m.Dosage,
			&m.ScheduledTime, &m.CreatedAt, &m.UpdatedAt, &m.Accent,
		)
		m.CreatedAt = m.CreatedAt.UTC()
		m.UpdatedAt = m.UpdatedAt.UTC()
		return m, err
	},
}

var logsTable = tableDef[models.MedicationLog]{
	table: "medication_logs",
	topic: models.TopicLogs,
	columns: []string{
		"id", "medication_id", "owner_id", "taken_at", "uploaded_at", "time_source",
		"status", "image_path", "image_hash", "source_device", "sync_state", "photo",
	},
	filters: map[Field]func(models.MedicationLog) any{
		FieldOwnerID:      func(l models.MedicationLog) any { return l.OwnerID },
		FieldMedicationID: func(l models.MedicationLog) any { return l.MedicationID },
		FieldSyncState:    func(l models.MedicationLog) any { return l.SyncState },
		FieldSourceDevice: func(l models.MedicationLog) any { return l.SourceDevice },
		FieldStatus:       func(l models.MedicationLog) any { return l.Status },
	},
	id: func(l models.MedicationLog) string { return l.ID },
	values: func(l models.MedicationLog) []any {
		return []any{
			l.ID, l.MedicationID, l.OwnerID, l.TakenAt.UTC(), l.UploadedAt.UTC(), string(l.TimeSource),
			string(l.Status), l.ImagePath, l.ImageHash, l.SourceDevice, string(l.SyncState), l.Photo,
		}
	},
	scan: func(s rowScanner) (models.MedicationLog, error) {
		var l models.MedicationLog
		err := s.Scan(
			&l.ID, &l.MedicationID, &l.OwnerID, &l.TakenAt, &l.UploadedAt, &l.TimeSource,
			&l.Status, &l.ImagePath, &l.ImageHash, &l.SourceDevice, &l.SyncState, &l.Photo,
		)
		l.TakenAt = l.TakenAt.UTC()
		l.UploadedAt = l.UploadedAt.UTC()
		return l, err
	},
}

func (s tableDef[T]) allows(field Field) bool {
	_, ok := s.filters[field]
	return ok
}

// filterValue normalises typed string values (SyncState, LogStatus) so they
// compare and bind like plain strings.
func filterValue(v any) any {
	switch tv := v.(type) {
	case models.SyncState:
		return string(tv)
	case models.LogStatus:
		return string(tv)
	case models.TimeSource:
		return string(tv)
	case models.Accent:
		return string(tv)
	}
	return v
}
