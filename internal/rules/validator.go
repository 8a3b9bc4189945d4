package rules

import (
	"time"

	"github.com/ppiankov/swimcal/internal/model"
)

// Validator annotates merged events with advisory flags. It never drops or
// reorders events; every input appears in the output, possibly unflagged.
// Cross-event checks (double-booking across locations) are out of scope.
type Validator struct {
	minDuration time.Duration
	maxDuration time.Duration
}

// NewValidator creates a validator with the given duration bounds.
// Non-positive bounds fall back to 30 minutes and 4 hours.
func NewValidator(minDuration, maxDuration time.Duration) *Validator {
	if minDuration <= 0 {
		minDuration = 30 * time.Minute
	}
	if maxDuration <= 0 {
		maxDuration = 4 * time.Hour
	}
	return &Validator{
		minDuration: minDuration,
		maxDuration: maxDuration,
	}
}

// Validate flags each event against the reference time. A date strictly
// before now's calendar date is past-date; a span below the minimum is
// short-duration (degenerate zero or negative spans land here too); a span
// above the maximum is long-duration; an ambiguity marker from any earlier
// stage becomes ambiguous-location.
func (v *Validator) Validate(events []model.MergedEvent, now time.Time) []model.ValidatedEvent {
	today := now.Format("2006-01-02")

	out := make([]model.ValidatedEvent, 0, len(events))
	for _, ev := range events {
		var flags []model.ValidationFlag

		if ev.Date() < today {
			flags = append(flags, model.FlagPastDate)
		}

		duration := ev.Duration()
		if duration < v.minDuration {
			flags = append(flags, model.FlagShortDuration)
		}
		if duration > v.maxDuration {
			flags = append(flags, model.FlagLongDuration)
		}

		if ev.Ambiguous {
			flags = append(flags, model.FlagAmbiguousLocation)
		}

		out = append(out, model.ValidatedEvent{Event: ev, Flags: flags})
	}

	return out
}
