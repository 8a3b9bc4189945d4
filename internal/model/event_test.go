package model

import (
	"testing"
	"time"
)

func TestCandidateEvent_Date(t *testing.T) {
	tz, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}

	ev := CandidateEvent{
		Start: time.Date(2026, 1, 29, 18, 0, 0, 0, tz),
		End:   time.Date(2026, 1, 29, 20, 0, 0, 0, tz),
	}

	if ev.Date() != "2026-01-29" {
		t.Errorf("expected date 2026-01-29, got %s", ev.Date())
	}
	if ev.Weekday() != time.Thursday {
		t.Errorf("expected Thursday, got %v", ev.Weekday())
	}
}

func TestCandidateEvent_IsInferred(t *testing.T) {
	if !(CandidateEvent{RawText: InferredSnippet}).IsInferred() {
		t.Error("sentinel snippet should be inferred")
	}
	if !(CandidateEvent{RawText: ""}).IsInferred() {
		t.Error("empty snippet should be inferred")
	}
	if (CandidateEvent{RawText: "周四 1/29 下午 6 - 8 下水"}).IsInferred() {
		t.Error("real snippet should not be inferred")
	}
}

func TestMergedEvent_Duration(t *testing.T) {
	start := time.Date(2026, 2, 2, 18, 0, 0, 0, time.UTC)
	ev := MergedEvent{Start: start, End: start.Add(90 * time.Minute)}

	if ev.Duration() != 90*time.Minute {
		t.Errorf("expected 90m duration, got %v", ev.Duration())
	}
}

func TestValidatedEvent_HasFlag(t *testing.T) {
	ev := ValidatedEvent{Flags: []ValidationFlag{FlagPastDate, FlagShortDuration}}

	if !ev.HasFlag(FlagPastDate) {
		t.Error("expected past-date flag to be present")
	}
	if ev.HasFlag(FlagAmbiguousLocation) {
		t.Error("did not expect ambiguous-location flag")
	}
}
