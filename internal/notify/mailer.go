package notify

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/pkg/config"
)

// Mailer sends the moderation email over SMTP.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	to       string
	panelURL string
}

// NewMailer builds an SMTP mailer from config.
func NewMailer(cfg config.NotifyConfig) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:     cfg.From,
		to:       cfg.To,
		panelURL: cfg.PanelURL,
	}
}

// NotifySubmission sends the Hebrew "awaiting approval" email.
func (m *Mailer) NotifySubmission(ctx context.Context, r models.Restaurant) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", "מסעדה חדשה ממתינה לאישור")
	msg.SetBody("text/plain", m.body(r))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send submission mail: %w", err)
	}
	return nil
}

func (m *Mailer) body(r models.Restaurant) string {
	orDash := func(v string) string {
		if v == "" {
			return "לא צוין"
		}
		return v
	}

	var b strings.Builder
	b.WriteString("היי!\n\n")
	b.WriteString("מסעדה חדשה נוספה למערכת וממתינה לאישור שלך:\n\n")
	fmt.Fprintf(&b, "שם המסעדה: %s\n", r.Name)
	fmt.Fprintf(&b, "עיר: %s\n", orDash(r.City))
	fmt.Fprintf(&b, "אתר: %s\n", orDash(r.Website))
	fmt.Fprintf(&b, "כשרות: %s\n", r.Kashrut)
	fmt.Fprintf(&b, "תאריך הוספה: %s\n\n", r.DateAdded)
	b.WriteString("כנס לפאנל המנהל כדי לאשר או לדחות את המסעדה:\n")
	if m.panelURL != "" {
		b.WriteString(m.panelURL + "\n")
	}
	b.WriteString("\nבברכה,\nמערכת ניהול מסעדות כשרות\n")
	return b.String()
}
