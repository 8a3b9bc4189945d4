package model

import "strings"

// Location is an entry in the known-location table. At most one location
// should be marked as the weekday default and at most one as the weekend
// default; when several are marked, the first in table order wins.
type Location struct {
	Name           string `json:"name" yaml:"name" mapstructure:"name"`
	Address        string `json:"address" yaml:"address" mapstructure:"address"`
	DefaultWeekday bool   `json:"is_default_weekday" yaml:"is_default_weekday" mapstructure:"is_default_weekday"`
	DefaultWeekend bool   `json:"is_default_weekend" yaml:"is_default_weekend" mapstructure:"is_default_weekend"`
}

// FindLocation looks up a location by name, case-insensitively and ignoring
// surrounding whitespace.
func FindLocation(locations []Location, name string) (Location, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return Location{}, false
	}
	for _, loc := range locations {
		if strings.ToLower(strings.TrimSpace(loc.Name)) == want {
			return loc, true
		}
	}
	return Location{}, false
}

// WeekdayDefault returns the first location marked as the Mon-Fri default.
func WeekdayDefault(locations []Location) (Location, bool) {
	for _, loc := range locations {
		if loc.DefaultWeekday {
			return loc, true
		}
	}
	return Location{}, false
}

// WeekendDefault returns the first location marked as the Sat-Sun default.
func WeekendDefault(locations []Location) (Location, bool) {
	for _, loc := range locations {
		if loc.DefaultWeekend {
			return loc, true
		}
	}
	return Location{}, false
}
