package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/ppiankov/swimcal/internal/model"
)

// utf8BOM is prepended to ICS output. Some calendar apps, iOS in
// particular, misread UTF-8 schedule text without it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteICS renders the schedule as an RFC 5545 calendar with CRLF line
// endings and a UTF-8 BOM.
func (e *Exporter) WriteICS(w io.Writer, s *model.Schedule) error {
	content := e.buildICS(s)

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

func (e *Exporter) buildICS(s *model.Schedule) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//swimcal//swimcal//EN")

	name := fmt.Sprintf("Swimming Schedule %s", time.Now().Format("2006-01-02"))
	cal.SetXWRCalName(name)
	cal.SetName(name)

	tz := s.Timezone
	if tz == "" && e.config != nil {
		tz = e.config.Timezone
	}
	if tz != "" {
		cal.SetXWRTimezone(tz)
	}

	stamp := time.Now().UTC()
	for _, ve := range s.Events {
		ev := ve.Event

		icsEvent := cal.AddEvent(fmt.Sprintf("%s@swimcal", uuid.New().String()))
		icsEvent.SetDtStampTime(stamp)
		// Times go out as UTC instants; X-WR-TIMEZONE tells the calendar
		// app which zone to display them in.
		icsEvent.SetStartAt(ev.Start)
		icsEvent.SetEndAt(ev.End)
		icsEvent.SetSummary(ev.Summary)
		if ev.Address != "" {
			icsEvent.SetLocation(ev.Address)
		}
		if desc := icsDescription(ev); desc != "" {
			icsEvent.SetDescription(desc)
		}
	}

	return cal.Serialize()
}

// icsDescription combines the source snippet and merge notes into the
// event description.
func icsDescription(ev model.MergedEvent) string {
	desc := ""
	if ev.RawText != "" {
		desc = "Original: " + ev.RawText
	}
	if ev.Notes != "" {
		if desc != "" {
			desc += "\n"
		}
		desc += ev.Notes
	}
	return desc
}
