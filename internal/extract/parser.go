package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/swimcal/internal/model"
)

// ErrNoEvents reports that the model found nothing resembling a schedule
// in the input.
var ErrNoEvents = errors.New("no calendar events found in the input text")

// ParseError reports an extraction response that could not be interpreted
// as events JSON. Raw carries a truncated copy of the response for
// diagnostics.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse extraction response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse extraction response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// rawEvent mirrors one event object in the model's JSON reply
type rawEvent struct {
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Summary      string `json:"summary"`
	LocationName string `json:"location_name"`
	IsAmbiguous  bool   `json:"is_ambiguous"`
	OriginalText string `json:"original_text"`
}

// isoLayouts are the accepted datetime shapes. Seconds are optional and a
// trailing zone designator is tolerated even though the prompt asks for
// naive timestamps.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseResponse interprets the model's reply as candidate events.
// Timestamps are read as wall-clock times in loc. Candidates that fail to
// parse are reported on the skip list rather than silently dropped; if
// every candidate is skipped the error is ErrNoEvents and the skip list
// explains why.
func ParseResponse(content, defaultTitle string, loc *time.Location) ([]model.CandidateEvent, []model.SkippedInput, error) {
	if loc == nil {
		loc = time.Local
	}

	cleaned := StripCodeFences(content)

	raws, err := decodeEvents(cleaned)
	if err != nil {
		return nil, nil, err
	}
	if len(raws) == 0 {
		return nil, nil, ErrNoEvents
	}

	var events []model.CandidateEvent
	var skipped []model.SkippedInput
	for _, raw := range raws {
		ev, skip := buildCandidate(raw, defaultTitle, loc)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		events = append(events, ev)
	}

	if len(events) == 0 {
		return nil, skipped, ErrNoEvents
	}
	return events, skipped, nil
}

// StripCodeFences removes a markdown code fence wrapper if the model added
// one despite instructions
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeEvents accepts both response shapes the model produces: an object
// with an "events" field, or a bare list of events.
func decodeEvents(cleaned string) ([]rawEvent, error) {
	var wrapper struct {
		Events []rawEvent `json:"events"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil && wrapper.Events != nil {
		return wrapper.Events, nil
	}

	var list []rawEvent
	if err := json.Unmarshal([]byte(cleaned), &list); err == nil {
		return list, nil
	}

	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Raw: truncate(cleaned, 200), Err: err}
	}
	return nil, &ParseError{Reason: "JSON is not an events object or list", Raw: truncate(cleaned, 200)}
}

func buildCandidate(raw rawEvent, defaultTitle string, loc *time.Location) (model.CandidateEvent, *model.SkippedInput) {
	snippet := strings.TrimSpace(raw.OriginalText)
	if snippet == "" {
		snippet = model.InferredSnippet
	}

	if raw.StartTime == "" || raw.EndTime == "" {
		field := "start_time"
		if raw.StartTime != "" {
			field = "end_time"
		}
		return model.CandidateEvent{}, &model.SkippedInput{
			Snippet: snippet,
			Field:   field,
			Reason:  model.SkipMissingField,
		}
	}

	start, skip := parseISOTime(raw.StartTime, "start_time", snippet, loc)
	if skip != nil {
		return model.CandidateEvent{}, skip
	}
	end, skip := parseISOTime(raw.EndTime, "end_time", snippet, loc)
	if skip != nil {
		return model.CandidateEvent{}, skip
	}

	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		summary = defaultTitle
	}

	return model.CandidateEvent{
		Start:     start,
		End:       end,
		Summary:   summary,
		Location:  strings.TrimSpace(raw.LocationName),
		RawText:   snippet,
		Ambiguous: raw.IsAmbiguous,
	}, nil
}

func parseISOTime(value, field, snippet string, loc *time.Location) (time.Time, *model.SkippedInput) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}

	// Classify the failure: a bad calendar date vs a bad clock time.
	reason := model.SkipTimeParse
	datePart, _, found := strings.Cut(value, "T")
	if !found {
		reason = model.SkipDateParse
	} else if _, err := time.Parse("2006-01-02", datePart); err != nil {
		reason = model.SkipDateParse
	}

	return time.Time{}, &model.SkippedInput{
		Snippet: snippet,
		Field:   field,
		Reason:  reason,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
