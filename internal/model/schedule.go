package model

import "time"

// ValidationFlag is an advisory annotation attached to a merged event.
// Flags never block export; they surface uncertainty for a human to review.
type ValidationFlag string

const (
	FlagPastDate          ValidationFlag = "past-date"          // Event date is before the reference date
	FlagShortDuration     ValidationFlag = "short-duration"     // Below the configured minimum (covers zero/negative spans)
	FlagLongDuration      ValidationFlag = "long-duration"      // Above the configured maximum
	FlagAmbiguousLocation ValidationFlag = "ambiguous-location" // Location uncertain or contributors disagreed
)

// ValidatedEvent pairs a merged event with its advisory flags.
type ValidatedEvent struct {
	Event MergedEvent      `json:"event"`
	Flags []ValidationFlag `json:"flags,omitempty"`
}

// HasFlag reports whether the given flag is set.
func (v ValidatedEvent) HasFlag(flag ValidationFlag) bool {
	for _, f := range v.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// SkipReason classifies why a candidate was excluded from the pipeline.
type SkipReason string

const (
	SkipDateParse    SkipReason = "date-parse-error" // Date portion failed to parse
	SkipTimeParse    SkipReason = "time-parse-error" // Time portion failed to parse
	SkipMissingField SkipReason = "missing-field"    // Required field absent from the response
)

// SkippedInput records a candidate that was dropped, with the reason. The
// pipeline never silently discards data; every drop lands here.
type SkippedInput struct {
	Snippet string     `json:"snippet"`         // Source text of the dropped candidate, when available
	Field   string     `json:"field,omitempty"` // Offending field (e.g. "start_time")
	Reason  SkipReason `json:"reason"`
}

// Schedule is the complete conversion result: the final validated events
// plus the side channel of skipped inputs.
type Schedule struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Timezone    string           `json:"timezone"`
	Provider    string           `json:"provider,omitempty"` // LLM provider that extracted the events
	Model       string           `json:"model,omitempty"`    // Model name
	FromCache   bool             `json:"from_cache"`         // Extraction served from cache
	Events      []ValidatedEvent `json:"events"`
	Skipped     []SkippedInput   `json:"skipped,omitempty"`
}

// FlagCount returns how many events carry at least one flag.
func (s *Schedule) FlagCount() int {
	count := 0
	for _, ev := range s.Events {
		if len(ev.Flags) > 0 {
			count++
		}
	}
	return count
}
