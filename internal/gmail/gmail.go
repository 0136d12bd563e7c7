// Package gmail notifies the site owner about new contact messages through
// the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	gm "google.golang.org/api/gmail/v1"

	"github.com/daviddao/folio/internal/types"
)

// Notifier sends one email to the owner per contact message.
type Notifier struct {
	svc   *gm.Service
	from  string
	to    string
	title string
	now   func() time.Time
}

// NewNotifier returns a notifier sending from -> to. from may be empty, in
// which case Gmail fills in the authenticated account. title prefixes the
// subject line.
func NewNotifier(svc *gm.Service, from, to, title string) *Notifier {
	return &Notifier{svc: svc, from: from, to: to, title: title, now: time.Now}
}

// Notify emails the owner about m. The visitor's address is set as Reply-To.
func (n *Notifier) Notify(ctx context.Context, m *types.ContactMessage) error {
	raw := Compose(n.from, n.to, n.title, m, n.now())
	sent, err := n.svc.Users.Messages.Send("me", &gm.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("send notification for %s: %w", m.ID, err)
	}
	if sent.Id == "" {
		return fmt.Errorf("send notification for %s: empty message id", m.ID)
	}
	return nil
}

// Compose builds the RFC 2822 notification for m.
func Compose(from, to, title string, m *types.ContactMessage, date time.Time) []byte {
	subject := oneLine(m.Subject)
	if title != "" {
		subject = "[" + title + "] " + subject
	}
	replyTo := (&mail.Address{Name: oneLine(m.Name), Address: oneLine(m.Email)}).String()

	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k + ": " + v + "\r\n")
	}
	if from != "" {
		header("From", from)
	}
	header("To", to)
	header("Reply-To", replyTo)
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", date.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	b.WriteString("New message from the contact form.\r\n\r\n")
	b.WriteString("Name:    " + oneLine(m.Name) + "\r\n")
	b.WriteString("Email:   " + oneLine(m.Email) + "\r\n")
	b.WriteString("Subject: " + oneLine(m.Subject) + "\r\n")
	if m.CreatedAt != "" {
		b.WriteString("Sent:    " + m.CreatedAt + "\r\n")
	}
	if m.ID != "" {
		b.WriteString("ID:      " + m.ID + "\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(m.Message, "\r\n", "\n"), "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// oneLine folds CR and LF into spaces so values cannot start new headers.
func oneLine(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s))
}
