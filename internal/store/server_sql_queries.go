package store

import (
	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	serverMedicationColumns = []string{
		"owner_id", "id", "device_id", "name", "dosage",
		"scheduled_time", "created_at", "updated_at", "accent",
	}
	serverLogColumns = []string{
		"owner_id", "id", "medication_id", "taken_at", "uploaded_at",
		"time_source", "status", "image_path", "image_hash", "source_device",
	}
	serverSettingsColumns = []string{
		"owner_id", "theme", "notifications_enabled", "reminder_advance_minutes",
		"avatar_url", "display_name", "device_id", "updated_at",
	}
)

// The upsert suffixes return true for a fresh insert: a row written by
// INSERT has no deleting transaction id yet.
const (
	upsertMedicationSuffix = `ON CONFLICT (owner_id, id) DO UPDATE SET
		device_id = EXCLUDED.device_id,
		name = EXCLUDED.name,
		dosage = EXCLUDED.dosage,
		scheduled_time = EXCLUDED.scheduled_time,
		created_at = EXCLUDED.created_at,
		updated_at = EXCLUDED.updated_at,
		accent = EXCLUDED.accent
		RETURNING (xmax = 0)`

	upsertLogSuffix = `ON CONFLICT (owner_id, id) DO UPDATE SET
		medication_id = EXCLUDED.medication_id,
		taken_at = EXCLUDED.taken_at,
		uploaded_at = EXCLUDED.uploaded_at,
		time_source = EXCLUDED.time_source,
		status = EXCLUDED.status,
		image_path = EXCLUDED.image_path,
		image_hash = EXCLUDED.image_hash,
		source_device = EXCLUDED.source_device
		RETURNING (xmax = 0)`

	upsertSettingsSuffix = `ON CONFLICT (owner_id) DO UPDATE SET
		theme = EXCLUDED.theme,
		notifications_enabled = EXCLUDED.notifications_enabled,
		reminder_advance_minutes = EXCLUDED.reminder_advance_minutes,
		avatar_url = EXCLUDED.avatar_url,
		display_name = EXCLUDED.display_name,
		device_id = EXCLUDED.device_id,
		updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`

	upsertSnapshot = `INSERT INTO app_snapshots (owner_id, key, payload, version, updated_by, updated_at)
		VALUES ($1, $2, $3, 1, $4, NOW())
		ON CONFLICT (owner_id, key) DO UPDATE SET
			payload = EXCLUDED.payload,
			version = app_snapshots.version + 1,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING version, updated_at;`

	getSnapshot = `SELECT owner_id, key, payload, version, updated_by, updated_at
		FROM app_snapshots WHERE owner_id = $1 AND key = $2;`

	deleteServerMedication = `DELETE FROM medications WHERE owner_id = $1 AND id = $2
		RETURNING owner_id, id, device_id, name, dosage, scheduled_time, created_at, updated_at, accent;`

	deleteServerLogsByMedication = `DELETE FROM medication_logs WHERE owner_id = $1 AND medication_id = $2
		RETURNING owner_id, id, medication_id, taken_at, uploaded_at, time_source, status, image_path, image_hash, source_device;`
)
