package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/swimcal/internal/model"
)

// Renderer prints a human-readable conversion summary.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer. A nil writer means stdout.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderSummary prints the converted schedule, one event per line, with
// merge notes, validation flags, and the skipped-input report.
func (r *Renderer) RenderSummary(s *model.Schedule) {
	fmt.Fprintf(r.out, "\n═══════════════════════════════════════════════════\n")
	fmt.Fprintf(r.out, "  Swim Schedule (%s)\n", s.Timezone)
	fmt.Fprintf(r.out, "═══════════════════════════════════════════════════\n\n")

	for _, ve := range s.Events {
		ev := ve.Event
		fmt.Fprintf(r.out, "%s %s  %s-%s  %s @ %s\n",
			ev.Date(), ev.Start.Format("Mon"),
			ev.Start.Format("15:04"), ev.End.Format("15:04"),
			ev.Summary, ev.Location)
		if ev.Sources > 1 {
			fmt.Fprintf(r.out, "    merged from %d entries\n", ev.Sources)
		}
		for _, flag := range ve.Flags {
			fmt.Fprintf(r.out, "    ✗ %s\n", flag)
		}
	}

	if len(s.Skipped) > 0 {
		fmt.Fprintf(r.out, "\nSkipped inputs:\n")
		for _, skip := range s.Skipped {
			fmt.Fprintf(r.out, "  ✗ %s: %s (%s)\n", skip.Reason, skip.Snippet, skip.Field)
		}
	}

	fmt.Fprintf(r.out, "\n%d events", len(s.Events))
	if n := s.FlagCount(); n > 0 {
		fmt.Fprintf(r.out, ", %d flags", n)
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(r.out, ", %d inputs skipped", len(s.Skipped))
	}
	if s.FromCache {
		fmt.Fprintf(r.out, " (cached)")
	}
	fmt.Fprintln(r.out)
}
