package model

import "time"

// InferredSnippet is the sentinel raw_text value for events the extractor
// could not anchor to a verbatim fragment of the input.
const InferredSnippet = "(Inferred from schedule)"

// SnippetSeparator joins contributor snippets when events are merged.
const SnippetSeparator = " | "

// CandidateEvent is a raw event produced by the extraction step, not yet
// location-resolved or merged. Times are wall-clock values in the configured
// timezone; the calendar date is the date of Start.
type CandidateEvent struct {
	Start     time.Time `json:"start_time"`              // Session start
	End       time.Time `json:"end_time"`                // Session end
	Summary   string    `json:"summary"`                 // Short label from the extractor
	Location  string    `json:"location_name,omitempty"` // Explicit location mention, or empty
	RawText   string    `json:"raw_text"`                // Verbatim source snippet, or InferredSnippet
	Ambiguous bool      `json:"is_ambiguous"`            // Extractor was unsure about some field
}

// Date returns the calendar date key (YYYY-MM-DD) of the event.
func (e CandidateEvent) Date() string {
	return e.Start.Format("2006-01-02")
}

// Weekday returns the day of week of the event's calendar date.
func (e CandidateEvent) Weekday() time.Weekday {
	return e.Start.Weekday()
}

// IsInferred reports whether the snippet is the inferred sentinel.
func (e CandidateEvent) IsInferred() bool {
	return e.RawText == "" || e.RawText == InferredSnippet
}

// LocationSource records how an event's final location was determined.
type LocationSource string

const (
	LocationExplicit       LocationSource = "explicit"        // Explicit mention in the source text
	LocationWeekdayDefault LocationSource = "weekday-default" // Mon-Fri default applied
	LocationWeekendDefault LocationSource = "weekend-default" // Sat-Sun default applied
	LocationUnresolved     LocationSource = "unresolved"      // No mention, no applicable default
)

// UnknownLocation is the sentinel location for unresolved events. They stay
// exportable; the validator flags them instead.
const UnknownLocation = "Unknown"

// ResolvedEvent is a CandidateEvent with a finalized location. Location is
// never empty (UnknownLocation in the degraded case).
type ResolvedEvent struct {
	Start          time.Time      `json:"start_time"`
	End            time.Time      `json:"end_time"`
	Summary        string         `json:"summary"`
	Location       string         `json:"location"`          // Final location name
	Address        string         `json:"address,omitempty"` // Street address when known
	LocationSource LocationSource `json:"location_source"`
	RawText        string         `json:"raw_text"`
	Ambiguous      bool           `json:"is_ambiguous"`
}

// Date returns the calendar date key (YYYY-MM-DD) of the event.
func (e ResolvedEvent) Date() string {
	return e.Start.Format("2006-01-02")
}

// IsInferred reports whether the snippet is the inferred sentinel.
func (e ResolvedEvent) IsInferred() bool {
	return e.RawText == "" || e.RawText == InferredSnippet
}

// MergedEvent is the output of the overlap merger: either a single resolved
// event passed through unchanged, or the union of several same-date events.
// Invariant: Start/End span the min start and max end of all contributors.
type MergedEvent struct {
	Start          time.Time      `json:"start_time"`
	End            time.Time      `json:"end_time"`
	Summary        string         `json:"summary"`
	Location       string         `json:"location"`
	Address        string         `json:"address,omitempty"`
	LocationSource LocationSource `json:"location_source"`
	RawText        string         `json:"raw_text"` // Contributor snippets joined with SnippetSeparator
	Notes          string         `json:"notes,omitempty"`
	Ambiguous      bool           `json:"is_ambiguous"`
	Sources        int            `json:"sources"` // Number of contributing events
}

// Date returns the calendar date key (YYYY-MM-DD) of the event.
func (e MergedEvent) Date() string {
	return e.Start.Format("2006-01-02")
}

// Duration returns the event's time span.
func (e MergedEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
