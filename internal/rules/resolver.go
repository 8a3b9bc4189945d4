package rules

import (
	"time"

	"github.com/ppiankov/swimcal/internal/model"
)

// Resolver assigns a final location to each candidate event. An explicit
// mention wins; otherwise the day-of-week default from the location table
// applies. Resolution never fails: an event with no mention and no
// applicable default degrades to the Unknown sentinel and stays exportable.
type Resolver struct {
	locations []model.Location
}

// NewResolver creates a resolver over the given location table. The table is
// treated as an immutable snapshot; table order breaks default ties.
func NewResolver(locations []model.Location) *Resolver {
	return &Resolver{locations: locations}
}

// Resolve determines the final location for a single candidate.
func (r *Resolver) Resolve(candidate model.CandidateEvent) model.ResolvedEvent {
	resolved := model.ResolvedEvent{
		Start:     candidate.Start,
		End:       candidate.End,
		Summary:   candidate.Summary,
		RawText:   candidate.RawText,
		Ambiguous: candidate.Ambiguous,
	}

	// Explicit mention overrides any default. Unrecognized mentions fall
	// through to the day-type default.
	if loc, ok := model.FindLocation(r.locations, candidate.Location); ok {
		resolved.Location = loc.Name
		resolved.Address = loc.Address
		resolved.LocationSource = model.LocationExplicit
		return resolved
	}

	if isWeekday(candidate.Weekday()) {
		if loc, ok := model.WeekdayDefault(r.locations); ok {
			resolved.Location = loc.Name
			resolved.Address = loc.Address
			resolved.LocationSource = model.LocationWeekdayDefault
			return resolved
		}
	} else {
		if loc, ok := model.WeekendDefault(r.locations); ok {
			resolved.Location = loc.Name
			resolved.Address = loc.Address
			resolved.LocationSource = model.LocationWeekendDefault
			return resolved
		}
	}

	resolved.Location = model.UnknownLocation
	resolved.LocationSource = model.LocationUnresolved
	resolved.Ambiguous = true
	return resolved
}

// ResolveAll resolves a list of candidates, preserving order.
func (r *Resolver) ResolveAll(candidates []model.CandidateEvent) []model.ResolvedEvent {
	resolved := make([]model.ResolvedEvent, 0, len(candidates))
	for _, candidate := range candidates {
		resolved = append(resolved, r.Resolve(candidate))
	}
	return resolved
}

func isWeekday(day time.Weekday) bool {
	return day != time.Saturday && day != time.Sunday
}
