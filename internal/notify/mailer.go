package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// MailConfig holds SMTP settings for the mail sink.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Mailer delivers events as HTML emails over SMTP. Per-file success events
// are intentionally not mailed; successes are reported in aggregate by the
// daily summary.
type Mailer struct {
	cfg    MailConfig
	dialer *gomail.Dialer
}

// NewMailer creates a mail sink for the given SMTP configuration.
func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send implements Sink.
func (m *Mailer) Send(ev Event) error {
	var subject, body string

	switch e := ev.(type) {
	case FileFailed:
		subject = fmt.Sprintf("Invoice transform failed: %s", e.File)
		body = failureBody(e)
	case DailySummary:
		subject = fmt.Sprintf("Invoice transform daily summary %s", e.At.Format("2006-01-02"))
		body = summaryBody(e)
	default:
		// FileProcessed and future event kinds: no mail.
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send notification mail: %w", err)
	}
	return nil
}

func failureBody(e FileFailed) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h3>Invoice file could not be processed</h3>")
	b.WriteString("<table cellpadding=\"4\">")
	row(&b, "File", e.File)
	row(&b, "Time", e.At.Format(time.RFC3339))
	row(&b, "Error", e.Message)
	if e.Detail != "" {
		row(&b, "Detail", e.Detail)
	}
	b.WriteString("</table>")
	b.WriteString("<p>The source file has been moved to the error location for review.</p>")
	b.WriteString("</body></html>")
	return b.String()
}

func summaryBody(e DailySummary) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h3>Daily processing summary</h3>")
	b.WriteString("<table cellpadding=\"4\">")
	row(&b, "Period start", e.Since.Format(time.RFC3339))
	row(&b, "Period end", e.At.Format(time.RFC3339))
	row(&b, "Processed", fmt.Sprintf("%d", e.Successes))
	row(&b, "Failed", fmt.Sprintf("%d", e.Errors))
	b.WriteString("</table>")
	b.WriteString("</body></html>")
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<tr><td><b>%s</b></td><td>%s</td></tr>",
		html.EscapeString(label), html.EscapeString(value))
}
