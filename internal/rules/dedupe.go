package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/swimcal/internal/model"
)

// Deduplicate removes exact repeats: same start, same end, same summary
// ignoring case. The first occurrence wins; order is otherwise preserved.
func Deduplicate(events []model.MergedEvent) []model.MergedEvent {
	seen := make(map[string]bool, len(events))
	out := make([]model.MergedEvent, 0, len(events))

	for _, ev := range events {
		key := fmt.Sprintf("%d|%d|%s", ev.Start.Unix(), ev.End.Unix(), strings.ToLower(ev.Summary))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ev)
	}

	return out
}

// SortEvents returns the events ordered by start time ascending. The sort is
// stable so equal starts keep their incoming order.
func SortEvents(events []model.MergedEvent) []model.MergedEvent {
	out := make([]model.MergedEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
