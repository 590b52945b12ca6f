package models

import "time"

// Settings is the per-user preference bag. Values are not validated; the
// store persists whatever the caller provides, merged over defaults.
type Settings struct {
	Notifications     bool   `json:"notifications"`
	DarkMode          bool   `json:"darkMode"`
	Language          string `json:"language"`
	Timezone          string `json:"timezone"`
	DataRetentionDays int    `json:"dataRetentionDays"`

	// UpdatedAt is refreshed whenever the bag is re-persisted.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// DefaultSettings returns the settings applied before any user override.
// The timezone defaults to the local zone of the running process.
func DefaultSettings() Settings {
	return Settings{
		Notifications:     true,
		DarkMode:          false,
		Language:          "en",
		Timezone:          time.Now().Location().String(),
		DataRetentionDays: 365,
	}
}

// SettingsUpdate is an explicit field-level update for the settings bag.
// Nil fields keep their current value.
type SettingsUpdate struct {
	Notifications     *bool   `json:"notifications,omitempty"`
	DarkMode          *bool   `json:"darkMode,omitempty"`
	Language          *string `json:"language,omitempty"`
	Timezone          *string `json:"timezone,omitempty"`
	DataRetentionDays *int    `json:"dataRetentionDays,omitempty"`
}

// Apply merges the non-nil fields of u into s.
func (u SettingsUpdate) Apply(s *Settings) {
	if u.Notifications != nil {
		s.Notifications = *u.Notifications
	}
	if u.DarkMode != nil {
		s.DarkMode = *u.DarkMode
	}
	if u.Language != nil {
		s.Language = *u.Language
	}
	if u.Timezone != nil {
		s.Timezone = *u.Timezone
	}
	if u.DataRetentionDays != nil {
		s.DataRetentionDays = *u.DataRetentionDays
	}
}
