// Package rules implements the deterministic post-processing engine that
// runs after extraction: location defaulting, same-day overlap merging,
// deduplication, and advisory validation. Every stage is a pure function of
// its inputs and produces a new slice; nothing here does I/O.
package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/swimcal/internal/model"
)

// Snippets at or above this length are summarized in merge notes instead of
// being quoted verbatim.
const maxNoteSnippetRunes = 100

// Merger collapses temporally overlapping or touching same-date events into
// single calendar entries. Merging never crosses calendar dates.
type Merger struct {
	canonicalTitle string
}

// NewMerger creates a merger. Merged events take canonicalTitle as their
// summary, since a combined block no longer belongs to any one contributor.
func NewMerger(canonicalTitle string) *Merger {
	return &Merger{canonicalTitle: canonicalTitle}
}

// Merge groups events by calendar date, sorts each group by start time
// (stable, so extraction order breaks ties), and sweeps a merge window over
// it. An event joins the open window when its start is at or before the
// window's end; touching intervals merge, a strict gap closes the window.
// Output is ordered by date, then window start.
func (m *Merger) Merge(events []model.ResolvedEvent) []model.MergedEvent {
	if len(events) == 0 {
		return []model.MergedEvent{}
	}

	groups := make(map[string][]model.ResolvedEvent)
	for _, ev := range events {
		groups[ev.Date()] = append(groups[ev.Date()], ev)
	}

	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	merged := make([]model.MergedEvent, 0, len(events))
	for _, date := range dates {
		group := groups[date]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Start.Before(group[j].Start)
		})

		window := []model.ResolvedEvent{group[0]}
		windowEnd := group[0].End

		for _, ev := range group[1:] {
			if !ev.Start.After(windowEnd) {
				window = append(window, ev)
				if ev.End.After(windowEnd) {
					windowEnd = ev.End
				}
				continue
			}

			merged = append(merged, m.emit(window, windowEnd))
			window = []model.ResolvedEvent{ev}
			windowEnd = ev.End
		}
		merged = append(merged, m.emit(window, windowEnd))
	}

	return merged
}

// emit closes a window. A single-event window passes through unchanged; a
// multi-event window becomes one combined entry spanning the union of its
// contributors.
func (m *Merger) emit(window []model.ResolvedEvent, windowEnd time.Time) model.MergedEvent {
	first := window[0]

	if len(window) == 1 {
		return model.MergedEvent{
			Start:          first.Start,
			End:            first.End,
			Summary:        first.Summary,
			Location:       first.Location,
			Address:        first.Address,
			LocationSource: first.LocationSource,
			RawText:        first.RawText,
			Ambiguous:      first.Ambiguous,
			Sources:        1,
		}
	}

	summary := m.canonicalTitle
	if summary == "" {
		summary = first.Summary
	}

	out := model.MergedEvent{
		Start:          first.Start,
		End:            windowEnd,
		Summary:        summary,
		Location:       first.Location,
		Address:        first.Address,
		LocationSource: first.LocationSource,
		Sources:        len(window),
	}

	ambiguous := false
	var snippets []string
	for _, ev := range window {
		if ev.Ambiguous {
			ambiguous = true
		}
		if !ev.IsInferred() {
			snippets = append(snippets, ev.RawText)
		}
	}
	if len(snippets) > 0 {
		out.RawText = strings.Join(snippets, model.SnippetSeparator)
	} else {
		out.RawText = model.InferredSnippet
	}

	locations := distinctLocations(window)
	if len(locations) > 1 {
		ambiguous = true
	}

	out.Ambiguous = ambiguous
	out.Notes = buildNotes(window, locations)
	return out
}

// distinctLocations returns contributor locations in window order, first
// occurrence only.
func distinctLocations(window []model.ResolvedEvent) []string {
	seen := make(map[string]bool, len(window))
	var locations []string
	for _, ev := range window {
		if !seen[ev.Location] {
			seen[ev.Location] = true
			locations = append(locations, ev.Location)
		}
	}
	return locations
}

// buildNotes writes the audit trail for a merged window: one bullet per
// contributor with its original time range and snippet, plus the distinct
// locations when contributors disagreed.
func buildNotes(window []model.ResolvedEvent, locations []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Combined %d groups:", len(window))

	for _, ev := range window {
		span := ev.Start.Format("15:04") + "-" + ev.End.Format("15:04")
		if ev.IsInferred() || utf8.RuneCountInString(ev.RawText) >= maxNoteSnippetRunes {
			fmt.Fprintf(&b, "\n• Group: %s", span)
		} else {
			fmt.Fprintf(&b, "\n• %s: %s", span, ev.RawText)
		}
	}

	if len(locations) > 1 {
		fmt.Fprintf(&b, "\nLocations: %s", strings.Join(locations, ", "))
	}

	return b.String()
}
