// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Accent is the display accent tag of a medication card.
type Accent string

const (
	AccentLime   Accent = "lime"
	AccentBerry  Accent = "berry"
	AccentMint   Accent = "mint"
	AccentSky    Accent = "sky"
	AccentSunset Accent = "sunset"
)

// Valid reports whether a is one of the known accents.
func (a Accent) Valid() bool {
	switch a {
	case AccentLime, AccentBerry, AccentMint, AccentSky, AccentSunset:
		return true
	}
	return false
}

// Medication is a scheduled-intake definition.
//
// ID is generated on the client and never changes. OwnerID is empty while the
// device is used without signing in. DeviceID is the device that last wrote
// the record remotely; the realtime listener uses it to drop echoes.
type Medication struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id,omitempty"`
	DeviceID      string    `json:"device_id,omitempty"`
	Name          string    `json:"name"`
	Dosage        string    `json:"dosage"`
	ScheduledTime string    `json:"scheduled_time"` // HH:mm
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Accent        Accent    `json:"accent"`
}
