package export

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/ppiankov/swimcal/internal/model"
)

// zipMemberName is the ICS filename inside the archive.
const zipMemberName = "swimming_schedule.ics"

// WriteZIP wraps the ICS export in a ZIP archive with a single deflated
// member. Some mail clients refuse bare .ics attachments; the archive gets
// through.
func (e *Exporter) WriteZIP(w io.Writer, s *model.Schedule) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create(zipMemberName)
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	if err := e.WriteICS(f, s); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}
