// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TimeSource tells where the taken-at timestamp of a log came from.
type TimeSource string

const (
	// TimeSourceExif means the time was read from the photo metadata.
	TimeSourceExif TimeSource = "exif"
	// TimeSourceSystem means the device clock at capture time was used.
	TimeSourceSystem TimeSource = "system"
	// TimeSourceManual means the user typed the time in.
	TimeSourceManual TimeSource = "manual"
)

// LogStatus is the computed punctuality of an intake.
type LogStatus string

const (
	LogStatusOnTime  LogStatus = "ontime"
	LogStatusLate    LogStatus = "late"
	LogStatusManual  LogStatus = "manual"
	LogStatusSuspect LogStatus = "suspect"
)

// SyncState is the dirty flag of a local log.
type SyncState string

const (
	// SyncStateDirty marks a log whose latest local write is not confirmed
	// by the remote store.
	SyncStateDirty SyncState = "dirty"
	// SyncStateSynced marks a log that matches the remote copy.
	SyncStateSynced SyncState = "synced"
	// SyncStatePending marks a log that is being written remotely.
	SyncStatePending SyncState = "pending"
)

// MedicationLog is a single proof-of-intake event.
//
// TakenAt is the semantic event time and is immutable after creation.
// UploadedAt is the local creation wall-clock time. MedicationID is not
// enforced by the store; services validate it and orphaned logs are
// garbage collected.
type MedicationLog struct {
	ID           string     `json:"id"`
	MedicationID string     `json:"medication_id"`
	OwnerID      string     `json:"owner_id,omitempty"`
	TakenAt      time.Time  `json:"taken_at"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	TimeSource   TimeSource `json:"time_source"`
	Status       LogStatus  `json:"status"`
	ImagePath    string     `json:"image_path,omitempty"`
	ImageHash    string     `json:"image_hash,omitempty"`
	SourceDevice string     `json:"source_device,omitempty"`
	SyncState    SyncState  `json:"sync_state"`

	// Photo is the local copy of the image payload. It travels in snapshots
	// but never in remote log records, which only carry ImagePath.
	Photo []byte `json:"photo,omitempty"`
}

// IsDirty reports whether the log still needs a confirmed remote write.
func (l MedicationLog) IsDirty() bool {
	return l.SyncState == SyncStateDirty
}

// NeedsPhotoUpload reports whether the log carries a photo that has not
// been stored remotely yet.
func (l MedicationLog) NeedsPhotoUpload() bool {
	return len(l.Photo) > 0 && l.ImagePath == ""
}

// Valid reports whether s is a known time source.
func (s TimeSource) Valid() bool {
	switch s {
	case TimeSourceExif, TimeSourceSystem, TimeSourceManual:
		return true
	}
	return false
}

// Valid reports whether s is a known intake status.
func (s LogStatus) Valid() bool {
	switch s {
	case LogStatusOnTime, LogStatusLate, LogStatusManual, LogStatusSuspect:
		return true
	}
	return false
}

// Valid reports whether s is a known sync state.
func (s SyncState) Valid() bool {
	switch s {
	case SyncStateDirty, SyncStateSynced, SyncStatePending:
		return true
	}
	return false
}
