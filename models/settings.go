package models

import "time"

// UserSettings are the per-owner preferences shared across devices.
type UserSettings struct {
	OwnerID                string    `json:"owner_id,omitempty"`
	Theme                  string    `json:"theme"`
	NotificationsEnabled   bool      `json:"notifications_enabled"`
	ReminderAdvanceMinutes int       `json:"reminder_advance_minutes"`
	AvatarURL              string    `json:"avatar_url,omitempty"`
	DisplayName            string    `json:"display_name,omitempty"`
	DeviceID               string    `json:"device_id,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}
