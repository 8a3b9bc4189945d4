package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/swimcal/internal/model"
)

func resolvedAt(t *testing.T, date, startHM, endHM, raw string) model.ResolvedEvent {
	t.Helper()
	start, err := time.Parse("2006-01-02 15:04", date+" "+startHM)
	if err != nil {
		t.Fatalf("parse start %s %s: %v", date, startHM, err)
	}
	end, err := time.Parse("2006-01-02 15:04", date+" "+endHM)
	if err != nil {
		t.Fatalf("parse end %s %s: %v", date, endHM, err)
	}
	return model.ResolvedEvent{
		Start:          start,
		End:            end,
		Summary:        "Morning Swim",
		Location:       "Regis",
		Address:        "235 Wellesley St, Weston, MA",
		LocationSource: model.LocationWeekdayDefault,
		RawText:        raw,
	}
}

func TestMerger_TouchingEventsMerge(t *testing.T) {
	merger := NewMerger("Swim Practice")

	// 10:00 end touches 10:00 start: the boundary is inclusive
	events := []model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "09:00", "10:00", "A"),
		resolvedAt(t, "2026-03-03", "10:00", "11:30", "B"),
	}
	merged := merger.Merge(events)

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	if merged[0].Start.Format("15:04") != "09:00" || merged[0].End.Format("15:04") != "11:30" {
		t.Errorf("expected span 09:00-11:30, got %s-%s",
			merged[0].Start.Format("15:04"), merged[0].End.Format("15:04"))
	}
	if merged[0].RawText != "A | B" {
		t.Errorf("expected raw text %q, got %q", "A | B", merged[0].RawText)
	}
	if merged[0].Sources != 2 {
		t.Errorf("expected 2 sources, got %d", merged[0].Sources)
	}
}

func TestMerger_GapKeepsEventsSeparate(t *testing.T) {
	merger := NewMerger("Swim Practice")

	events := []model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "09:00", "10:00", "A"),
		resolvedAt(t, "2026-03-03", "10:30", "11:00", "B"),
	}
	merged := merger.Merge(events)

	if len(merged) != 2 {
		t.Fatalf("expected 2 separate events, got %d", len(merged))
	}
	if merged[0].RawText != "A" || merged[1].RawText != "B" {
		t.Errorf("expected pass-through snippets A and B, got %q and %q",
			merged[0].RawText, merged[1].RawText)
	}
	if merged[0].Notes != "" || merged[1].Notes != "" {
		t.Error("single-event windows must not carry merge notes")
	}
}

func TestMerger_SingleEventPassesThroughUnchanged(t *testing.T) {
	merger := NewMerger("Swim Practice")

	ev := resolvedAt(t, "2026-03-03", "18:00", "19:30", "6~7:30pm 下水")
	merged := merger.Merge([]model.ResolvedEvent{ev})

	if len(merged) != 1 {
		t.Fatalf("expected 1 event, got %d", len(merged))
	}
	out := merged[0]
	if out.Summary != "Morning Swim" {
		t.Errorf("pass-through must keep the original summary, got %q", out.Summary)
	}
	if out.RawText != "6~7:30pm 下水" || out.Notes != "" || out.Sources != 1 {
		t.Errorf("pass-through altered the event: raw=%q notes=%q sources=%d",
			out.RawText, out.Notes, out.Sources)
	}
}

func TestMerger_MergedEventUsesCanonicalTitle(t *testing.T) {
	merger := NewMerger("Swim Practice")

	merged := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "18:00", "19:30", "A"),
		resolvedAt(t, "2026-03-03", "19:00", "20:00", "B"),
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	if merged[0].Summary != "Swim Practice" {
		t.Errorf("expected canonical title, got %q", merged[0].Summary)
	}
}

func TestMerger_UnionSpan(t *testing.T) {
	merger := NewMerger("Swim Practice")

	// The second contributor ends inside the first; the third extends it.
	merged := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "09:00", "11:00", "A"),
		resolvedAt(t, "2026-03-03", "09:30", "10:00", "B"),
		resolvedAt(t, "2026-03-03", "10:45", "12:00", "C"),
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	if merged[0].Start.Format("15:04") != "09:00" || merged[0].End.Format("15:04") != "12:00" {
		t.Errorf("expected union span 09:00-12:00, got %s-%s",
			merged[0].Start.Format("15:04"), merged[0].End.Format("15:04"))
	}
}

func TestMerger_NeverMergesAcrossDates(t *testing.T) {
	merger := NewMerger("Swim Practice")

	merged := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "18:00", "20:00", "A"),
		resolvedAt(t, "2026-03-04", "18:00", "20:00", "B"),
	})

	if len(merged) != 2 {
		t.Fatalf("expected 2 events across dates, got %d", len(merged))
	}
}

func TestMerger_OutputOrderedByDateThenStart(t *testing.T) {
	merger := NewMerger("Swim Practice")

	merged := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-04", "09:00", "10:00", "C"),
		resolvedAt(t, "2026-03-03", "18:00", "19:00", "B"),
		resolvedAt(t, "2026-03-03", "08:00", "09:00", "A"),
	})

	if len(merged) != 3 {
		t.Fatalf("expected 3 events, got %d", len(merged))
	}
	want := []string{"A", "B", "C"}
	for i, raw := range want {
		if merged[i].RawText != raw {
			t.Errorf("position %d: expected %q, got %q", i, raw, merged[i].RawText)
		}
	}
}

func TestMerger_OrderInvariance(t *testing.T) {
	merger := NewMerger("Swim Practice")

	events := []model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "09:00", "10:00", "A"),
		resolvedAt(t, "2026-03-03", "10:00", "11:30", "B"),
		resolvedAt(t, "2026-03-03", "13:00", "14:00", "C"),
		resolvedAt(t, "2026-03-04", "09:00", "10:00", "D"),
	}
	shuffled := []model.ResolvedEvent{events[3], events[1], events[2], events[0]}

	a := merger.Merge(events)
	b := merger.Merge(shuffled)

	if len(a) != len(b) {
		t.Fatalf("window counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			t.Errorf("window %d spans differ: %v-%v vs %v-%v",
				i, a[i].Start, a[i].End, b[i].Start, b[i].End)
		}
	}
}

func TestMerger_Idempotent(t *testing.T) {
	merger := NewMerger("Swim Practice")

	once := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "09:00", "10:00", "A"),
		resolvedAt(t, "2026-03-03", "10:00", "11:30", "B"),
		resolvedAt(t, "2026-03-03", "13:00", "14:00", "C"),
	})

	// Feed the merged output back through: each window already holds a
	// single event, so nothing may change.
	again := make([]model.ResolvedEvent, 0, len(once))
	for _, ev := range once {
		again = append(again, model.ResolvedEvent{
			Start:          ev.Start,
			End:            ev.End,
			Summary:        ev.Summary,
			Location:       ev.Location,
			Address:        ev.Address,
			LocationSource: ev.LocationSource,
			RawText:        ev.RawText,
			Ambiguous:      ev.Ambiguous,
		})
	}
	twice := merger.Merge(again)

	if len(twice) != len(once) {
		t.Fatalf("re-merge changed event count: %d vs %d", len(twice), len(once))
	}
	for i := range once {
		if !once[i].Start.Equal(twice[i].Start) || !once[i].End.Equal(twice[i].End) {
			t.Errorf("re-merge changed span %d", i)
		}
		if once[i].RawText != twice[i].RawText {
			t.Errorf("re-merge changed raw text %d: %q vs %q", i, once[i].RawText, twice[i].RawText)
		}
	}
}

func TestMerger_SnippetRoundTrip(t *testing.T) {
	merger := NewMerger("Swim Practice")

	// Middle contributor is inferred and must be skipped in the join.
	inferred := resolvedAt(t, "2026-03-03", "10:00", "10:30", "")
	inferred.RawText = model.InferredSnippet

	merged := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "09:00", "10:00", "A"),
		inferred,
		resolvedAt(t, "2026-03-03", "10:30", "11:00", "B"),
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	parts := strings.Split(merged[0].RawText, model.SnippetSeparator)
	if len(parts) != 2 || parts[0] != "A" || parts[1] != "B" {
		t.Errorf("snippet round-trip failed: %v", parts)
	}
}

func TestMerger_AllInferredKeepsSentinel(t *testing.T) {
	merger := NewMerger("Swim Practice")

	first := resolvedAt(t, "2026-03-03", "09:00", "10:00", "")
	first.RawText = model.InferredSnippet
	second := resolvedAt(t, "2026-03-03", "10:00", "11:00", "")
	second.RawText = model.InferredSnippet

	merged := merger.Merge([]model.ResolvedEvent{first, second})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	if merged[0].RawText != model.InferredSnippet {
		t.Errorf("expected sentinel raw text, got %q", merged[0].RawText)
	}
}

func TestMerger_LocationDisagreement(t *testing.T) {
	merger := NewMerger("Swim Practice")

	second := resolvedAt(t, "2026-03-03", "10:00", "11:00", "B")
	second.Location = "Wightman"
	second.Address = "100 Brown St, Weston, MA"
	second.LocationSource = model.LocationExplicit

	merged := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "09:00", "10:00", "A"),
		second,
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	out := merged[0]
	if out.Location != "Regis" {
		t.Errorf("first contributor's location must stay primary, got %s", out.Location)
	}
	if !out.Ambiguous {
		t.Error("location disagreement must mark the event ambiguous")
	}
	if !strings.Contains(out.Notes, "Locations: Regis, Wightman") {
		t.Errorf("notes must list the distinct locations, got %q", out.Notes)
	}
}

func TestMerger_NotesFormat(t *testing.T) {
	merger := NewMerger("Swim Practice")

	merged := merger.Merge([]model.ResolvedEvent{
		resolvedAt(t, "2026-03-03", "18:00", "19:30", "6~7:30pm 下水"),
		resolvedAt(t, "2026-03-03", "19:30", "20:00", "7:30~8pm 陆上拉伸"),
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	notes := merged[0].Notes
	if !strings.HasPrefix(notes, "Combined 2 groups:") {
		t.Errorf("notes must open with the contributor count, got %q", notes)
	}
	if !strings.Contains(notes, "• 18:00-19:30: 6~7:30pm 下水") {
		t.Errorf("notes missing first contributor line: %q", notes)
	}
	if !strings.Contains(notes, "• 19:30-20:00: 7:30~8pm 陆上拉伸") {
		t.Errorf("notes missing second contributor line: %q", notes)
	}
}

func TestMerger_LongSnippetSummarizedInNotes(t *testing.T) {
	merger := NewMerger("Swim Practice")

	long := resolvedAt(t, "2026-03-03", "09:00", "10:00", strings.Repeat("很长的原文", 25))
	merged := merger.Merge([]model.ResolvedEvent{
		long,
		resolvedAt(t, "2026-03-03", "10:00", "11:00", "B"),
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	if !strings.Contains(merged[0].Notes, "• Group: 09:00-10:00") {
		t.Errorf("oversized snippet should be summarized, got %q", merged[0].Notes)
	}
}

func TestMerger_EmptyInput(t *testing.T) {
	merger := NewMerger("Swim Practice")

	merged := merger.Merge(nil)
	if len(merged) != 0 {
		t.Errorf("expected empty output for empty input, got %d events", len(merged))
	}
}

func TestMerger_AmbiguityPropagates(t *testing.T) {
	merger := NewMerger("Swim Practice")

	flagged := resolvedAt(t, "2026-03-03", "09:00", "10:00", "A")
	flagged.Ambiguous = true

	merged := merger.Merge([]model.ResolvedEvent{
		flagged,
		resolvedAt(t, "2026-03-03", "10:00", "11:00", "B"),
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(merged))
	}
	if !merged[0].Ambiguous {
		t.Error("ambiguity of any contributor must propagate to the merged event")
	}
}
