package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/swimcal/internal/model"
)

// Format identifies a calendar output format
type Format string

const (
	FormatICS        Format = "ics"
	FormatGoogleCSV  Format = "gcsv"
	FormatOutlookCSV Format = "ocsv"
	FormatZIP        Format = "zip"
)

// ParseFormat maps a user-supplied format name to a Format. The empty
// string means ICS.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ics", "":
		return FormatICS, nil
	case "gcsv", "google", "google-csv":
		return FormatGoogleCSV, nil
	case "ocsv", "outlook", "outlook-csv":
		return FormatOutlookCSV, nil
	case "zip":
		return FormatZIP, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: ics, gcsv, ocsv, zip)", s)
	}
}

// Extension returns the file extension for the format
func (f Format) Extension() string {
	switch f {
	case FormatGoogleCSV, FormatOutlookCSV:
		return "csv"
	case FormatZIP:
		return "zip"
	default:
		return "ics"
	}
}

// MIMEType returns the MIME type for the format
func (f Format) MIMEType() string {
	switch f {
	case FormatGoogleCSV, FormatOutlookCSV:
		return "text/csv"
	case FormatZIP:
		return "application/zip"
	default:
		return "text/calendar"
	}
}

// Exporter writes schedules in the supported calendar formats
type Exporter struct {
	config *model.Config
}

// NewExporter creates an exporter
func NewExporter(cfg *model.Config) *Exporter {
	return &Exporter{config: cfg}
}

// Write renders the schedule in the given format
func (e *Exporter) Write(w io.Writer, s *model.Schedule, format Format) error {
	switch format {
	case FormatICS:
		return e.WriteICS(w, s)
	case FormatGoogleCSV:
		return e.WriteGoogleCSV(w, s)
	case FormatOutlookCSV:
		return e.WriteOutlookCSV(w, s)
	case FormatZIP:
		return e.WriteZIP(w, s)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Filename suggests an output filename for today's export.
func (e *Exporter) Filename(format Format) string {
	return fmt.Sprintf("swim_schedule_%s.%s", time.Now().Format("2006-01-02"), format.Extension())
}
