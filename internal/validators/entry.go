package validators

import (
	"context"
	"time"

	"github.com/akaretnikov/welltrack/models"
)

const (
	FieldDate       = "date"
	FieldSteps      = "steps"
	FieldSleepHours = "sleep_hours"
	FieldMood       = "mood"
	FieldNotes      = "notes"
)

// maxNotesLength caps the free-form notes field.
const maxNotesLength = 500

type EntryValidator struct {
}

func NewEntryValidator() Validator {
	return &EntryValidator{}
}

func (v *EntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entry:
		return v.validateEntry(ctx, entryFields(value), fields...)
	case *models.Entry:
		return v.validateEntry(ctx, entryFields(*value), fields...)

	case models.EntryInput:
		return v.validateEntry(ctx, inputFields(value), fields...)
	case *models.EntryInput:
		return v.validateEntry(ctx, inputFields(*value), fields...)

	default:
		return ErrUnsupportedType
	}
}

// entryFields is the common field set validated for both drafts and stored
// entries.
type fieldSet struct {
	date       string
	steps      int
	sleepHours float64
	mood       models.Mood
	notes      string
}

func entryFields(e models.Entry) fieldSet {
	return fieldSet{date: e.Date, steps: e.Steps, sleepHours: e.SleepHours, mood: e.Mood, notes: e.Notes}
}

func inputFields(in models.EntryInput) fieldSet {
	return fieldSet{date: in.Date, steps: in.Steps, sleepHours: in.SleepHours, mood: in.Mood, notes: in.Notes}
}

// validateEntry checks every requested field and accumulates one failure
// per field, so a caller gets the full picture in a single pass instead of
// fixing rules one at a time.
func (v *EntryValidator) validateEntry(_ context.Context, entry fieldSet, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDate, FieldSteps, FieldSleepHours, FieldMood, FieldNotes}
	}

	failed := FieldErrors{}
	for _, f := range fields {
		switch f {
		case FieldDate:
			if entry.date == "" {
				failed[FieldDate] = ErrDateRequired
			} else if _, err := time.Parse(models.DateLayout, entry.date); err != nil {
				failed[FieldDate] = ErrInvalidDateFormat
			}
		case FieldSteps:
			// zero steps is rejected alongside negatives: an entry is
			// expected to record actual movement
			if entry.steps <= 0 {
				failed[FieldSteps] = ErrInvalidSteps
			}
		case FieldSleepHours:
			// zero is rejected the same way zero steps is; 24 is the
			// inclusive upper bound
			if entry.sleepHours <= 0 || entry.sleepHours > 24 {
				failed[FieldSleepHours] = ErrInvalidSleepHours
			}
		case FieldMood:
			if entry.mood == "" {
				failed[FieldMood] = ErrMoodRequired
			} else if !entry.mood.Valid() {
				failed[FieldMood] = ErrInvalidMood
			}
		case FieldNotes:
			if len([]rune(entry.notes)) > maxNotesLength {
				failed[FieldNotes] = ErrNotesTooLong
			}
		default:
			// an unknown field name is a programming error, not user input
			return ErrUnknownField
		}
	}

	if len(failed) == 0 {
		return nil
	}
	return failed
}
