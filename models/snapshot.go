// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SnapshotSchemaVersion is written into every exported snapshot payload.
const SnapshotSchemaVersion = 1

// SnapshotPayload is a full export of both local collections used for
// manual backup and restore. Applying it replaces local state entirely.
type SnapshotPayload struct {
	Medications    []Medication    `json:"medications"`
	MedicationLogs []MedicationLog `json:"medicationLogs"`
	UserSettings   *UserSettings   `json:"userSettings,omitempty"`
	Version        int             `json:"version"`
	Timestamp      time.Time       `json:"timestamp"`
}

// AppSnapshot is the remote snapshot record, keyed by (OwnerID, Key).
// Version is assigned by the remote store and grows by one on every save.
type AppSnapshot struct {
	OwnerID   string          `json:"owner_id"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	Version   int64           `json:"version"`
	UpdatedBy string          `json:"updated_by"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SaveFailure is the typed reason of a failed snapshot save.
type SaveFailure string

const (
	SaveFailureNone        SaveFailure = ""
	SaveFailureAuthMissing SaveFailure = "auth_missing"
	SaveFailureRemoteWrite SaveFailure = "remote_write_error"
	SaveFailureException   SaveFailure = "exception"
)

// SaveResult is returned by a snapshot save. Version is set on success.
type SaveResult struct {
	Success bool        `json:"success"`
	Failure SaveFailure `json:"failure,omitempty"`
	Message string      `json:"message,omitempty"`
	Version int64       `json:"version,omitempty"`
}
