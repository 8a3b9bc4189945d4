/*
Package notify delivers converted schedules by email.
*/
package notify

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/swimcal/internal/export"
	"github.com/ppiankov/swimcal/internal/model"

	gomail "gopkg.in/mail.v2"
)

// EmailSender mails a schedule summary with the calendar file attached.
type EmailSender struct {
	config *model.Config
}

// NewEmailSender creates a sender using the email section of the config.
func NewEmailSender(cfg *model.Config) *EmailSender {
	return &EmailSender{config: cfg}
}

// Send emails the schedule to the configured recipient. It is a no-op when
// email delivery is disabled.
func (s *EmailSender) Send(schedule *model.Schedule) error {
	email := s.config.Email
	if !email.Enabled {
		return nil
	}
	if email.SMTPServer == "" || email.From == "" || email.To == "" {
		return fmt.Errorf("email is enabled but smtp_server, from, and to must all be set")
	}

	exporter := export.NewExporter(s.config)
	attachment := exporter.Filename(export.FormatICS)

	var ics bytes.Buffer
	if err := exporter.WriteICS(&ics, schedule); err != nil {
		return fmt.Errorf("build calendar attachment: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", email.From)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", subject(schedule))
	m.SetBody("text/plain", body(schedule, attachment))
	m.AttachReader(attachment, &ics)

	dialer := gomail.NewDialer(email.SMTPServer, email.SMTPPort, email.SMTPUser, email.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	return nil
}

func subject(schedule *model.Schedule) string {
	n := len(schedule.Events)
	if n == 0 {
		return "Swim schedule: no sessions"
	}
	noun := "sessions"
	if n == 1 {
		noun = "session"
	}
	first := schedule.Events[0].Event.Start.Format("Jan 2")
	last := schedule.Events[n-1].Event.Start.Format("Jan 2")
	if first == last {
		return fmt.Sprintf("Swim schedule: %d %s on %s", n, noun, first)
	}
	return fmt.Sprintf("Swim schedule: %d %s, %s to %s", n, noun, first, last)
}

func body(schedule *model.Schedule, attachment string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Swim schedule generated %s (%s).\n\n",
		schedule.GeneratedAt.Format("2006-01-02"), schedule.Timezone)

	for _, ev := range schedule.Events {
		e := ev.Event
		fmt.Fprintf(&b, "  %s %s  %s-%s  %s @ %s\n",
			e.Date(), e.Start.Format("Mon"),
			e.Start.Format("15:04"), e.End.Format("15:04"),
			e.Summary, e.Location)
		for _, flag := range ev.Flags {
			fmt.Fprintf(&b, "      review: %s\n", flag)
		}
	}

	if len(schedule.Skipped) > 0 {
		b.WriteString("\nSkipped inputs:\n")
		for _, skip := range schedule.Skipped {
			fmt.Fprintf(&b, "  %s: %s\n", skip.Reason, skip.Snippet)
		}
	}

	fmt.Fprintf(&b, "\nImport %s into your calendar to add the events.\n", attachment)
	return b.String()
}
