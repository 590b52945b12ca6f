package models

import "time"

// DateLayout is the calendar-date format used for Entry.Date and for all
// range queries. Dates are stored as plain strings, exactly as entered.
const DateLayout = "2006-01-02"

// Mood is the subjective well-being rating attached to an entry.
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodNeutral   Mood = "neutral"
	MoodTired     Mood = "tired"
	MoodStressed  Mood = "stressed"
	MoodSick      Mood = "sick"
)

// Moods lists every valid mood value in display order.
var Moods = []Mood{MoodExcellent, MoodGood, MoodNeutral, MoodTired, MoodStressed, MoodSick}

// Valid reports whether m is one of the known mood values.
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Entry is one day's recorded wellness data. Entries are owned by exactly
// one user and persisted inside that user's partition of the entries
// document. Duplicate dates within a partition are permitted by the store.
type Entry struct {
	// ID is generated from a millisecond timestamp at creation time and
	// bumped on collision within the partition. It is unique per
	// partition but not guaranteed globally unique across imports.
	ID int64 `json:"id"`

	// UserID is the owning account. Immutable after creation.
	UserID int64 `json:"userId"`

	// Date is the calendar date the entry describes, in YYYY-MM-DD form.
	Date string `json:"date"`

	// Steps walked that day.
	Steps int `json:"steps"`

	// SleepHours slept that night, in hours.
	SleepHours float64 `json:"sleepHours"`

	// Mood is the subjective rating for the day.
	Mood Mood `json:"mood"`

	// Notes is free-form text, at most 500 characters.
	Notes string `json:"notes"`

	// CreatedAt is set when the entry is first stored.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every edit.
	UpdatedAt time.Time `json:"updatedAt"`

	// ImportedAt is set only on entries that arrived through a bundle
	// import rather than direct creation.
	ImportedAt *time.Time `json:"importedAt,omitempty"`
}

// EntryInput is the caller-supplied payload for creating an entry.
// Identity and timestamps are assigned by the store.
type EntryInput struct {
	Date       string  `json:"date"`
	Steps      int     `json:"steps"`
	SleepHours float64 `json:"sleepHours"`
	Mood       Mood    `json:"mood"`
	Notes      string  `json:"notes"`
}

// EntryUpdate is an explicit field-level update for an existing entry.
// Nil fields keep their current value; ID and UserID are immutable and
// deliberately absent.
type EntryUpdate struct {
	Date       *string  `json:"date,omitempty"`
	Steps      *int     `json:"steps,omitempty"`
	SleepHours *float64 `json:"sleepHours,omitempty"`
	Mood       *Mood    `json:"mood,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// Apply merges the non-nil fields of u into e.
func (u EntryUpdate) Apply(e *Entry) {
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Steps != nil {
		e.Steps = *u.Steps
	}
	if u.SleepHours != nil {
		e.SleepHours = *u.SleepHours
	}
	if u.Mood != nil {
		e.Mood = *u.Mood
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}
}

// StorageStats summarises the current user's persisted footprint.
type StorageStats struct {
	// TotalEntries is the number of entries in the partition.
	TotalEntries int `json:"totalEntries"`

	// OldestEntry and NewestEntry are the boundary dates of the
	// partition, empty when there are no entries.
	OldestEntry string `json:"oldestEntry"`
	NewestEntry string `json:"newestEntry"`

	// Size is the approximate serialized size in bytes.
	Size StorageSize `json:"storageSize"`
}

// StorageSize breaks the approximate byte size down by document.
type StorageSize struct {
	Entries  int `json:"entries"`
	Settings int `json:"settings"`
	Total    int `json:"total"`
}
