package models

import (
	"encoding/json"
)

// Topic names a change feed channel. It matches the remote table name.
type Topic string

const (
	TopicMedications Topic = "medications"
	TopicLogs        Topic = "medication_logs"
	TopicSettings    Topic = "user_settings"
)

// EventType is the kind of write a change event describes.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent is one message of the owner-scoped change feed.
// Record holds the new row; OldRecord is set for deletes. Device is the
// device that performed the write, when the server knows it.
type ChangeEvent struct {
	Topic     Topic           `json:"topic"`
	Type      EventType       `json:"type"`
	OwnerID   string          `json:"owner_id"`
	Device    string          `json:"device,omitempty"`
	Record    json.RawMessage `json:"record,omitempty"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

type originTags struct {
	DeviceID     string `json:"device_id"`
	SourceDevice string `json:"source_device"`
}

// OriginDevice returns the device that caused the write, or "" when it is
// unknown. The event's own Device stamp wins. Without it an insert or update
// falls back to the record's tag (source_device for logs, device_id for the
// other topics). A delete has no fallback: the old record names the device
// that last wrote the row, not the one that removed it.
func (e ChangeEvent) OriginDevice() string {
	if e.Device != "" {
		return e.Device
	}
	if e.Type == EventDelete || len(e.Record) == 0 {
		return ""
	}

	var tags originTags
	if err := json.Unmarshal(e.Record, &tags); err != nil {
		return ""
	}

	if e.Topic == TopicLogs {
		return tags.SourceDevice
	}
	return tags.DeviceID
}
