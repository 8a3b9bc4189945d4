package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ppiankov/swimcal/internal/model"
)

// WriteGoogleCSV renders the schedule in the CSV layout Google Calendar's
// importer expects.
func (e *Exporter) WriteGoogleCSV(w io.Writer, s *model.Schedule) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Subject", "Start Date", "Start Time", "End Date", "End Time",
		"All Day Event", "Description", "Location", "Private",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, ve := range s.Events {
		ev := ve.Event

		desc := ""
		if ev.RawText != "" {
			desc = "Original: " + ev.RawText
		}
		if ev.Notes != "" {
			if desc != "" {
				desc += " | "
			}
			desc += ev.Notes
		}

		record := []string{
			ev.Summary,
			ev.Start.Format("01/02/2006"),
			ev.Start.Format("03:04 PM"),
			ev.End.Format("01/02/2006"),
			ev.End.Format("03:04 PM"),
			"False",
			desc,
			ev.Address,
			"False",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteOutlookCSV renders the schedule in Outlook's 22-column import
// layout. Only the fields a swim schedule has are filled; the rest stay
// empty the way Outlook's own exports leave them.
func (e *Exporter) WriteOutlookCSV(w io.Writer, s *model.Schedule) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Subject", "Start Date", "Start Time", "End Date", "End Time",
		"All day event", "Reminder on/off", "Reminder Date", "Reminder Time",
		"Meeting Organizer", "Required Attendees", "Optional Attendees",
		"Meeting Resources", "Billing Information", "Categories",
		"Description", "Location", "Mileage", "Priority", "Private",
		"Sensitivity", "Show time as",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, ve := range s.Events {
		ev := ve.Event

		record := []string{
			ev.Summary,
			ev.Start.Format("01/02/2006"),
			ev.Start.Format("03:04:05 PM"),
			ev.End.Format("01/02/2006"),
			ev.End.Format("03:04:05 PM"),
			"False",
			"False",
			"", "",
			"", "", "", "",
			"", "",
			ev.RawText,
			ev.Address,
			"", "Normal", "False", "Normal", "2",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
