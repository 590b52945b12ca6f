// SPDX-License-Identifier: Apache-2.0

package store

// Storage keys. These names are the on-disk schema of the application and
// are preserved verbatim from previous releases; changing any of them
// orphans existing user data.
const (
	// authKey holds the literal string "true" while a session is active.
	authKey = "wellness_tracker_auth"

	// sessionKey holds the serialized current session.
	sessionKey = "wellness_tracker_user"

	// entriesKey holds a JSON object mapping stringified user ids to
	// ordered entry lists.
	entriesKey = "entries"

	// settingsKey holds a JSON object mapping stringified user ids to
	// settings bags.
	settingsKey = "wellness_tracker_settings"

	// themeKey holds one of "light", "dark", "system".
	themeKey = "wellness_tracker_theme"
)
