// internal/app/system/mailer/mailer.go

// Package mailer sends transactional email (reset codes, urgent blood
// requests, feedback) over SMTP. The Mailer is constructed at startup and
// injected; nothing here is a package-level singleton. Sends are
// fire-and-forget with the result surfaced to the caller — no retries.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Email is one outbound message. HTMLBody is optional; when present the
// message goes out as multipart/alternative.
type Email struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer wraps an SMTP endpoint.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	log      *zap.Logger

	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New builds a Mailer. Empty username skips authentication (local
// Mailpit-style relays).
func New(host string, port int, username, password, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		log:      logger,
		send:     smtp.SendMail,
	}
}

// Send delivers the message. The context bounds the call only insofar as
// it is checked before dialing; net/smtp does not take a context.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(e.To) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	msg := m.build(e)

	if err := m.send(addr, auth, m.from, e.To, msg); err != nil {
		m.log.Error("mail send failed",
			zap.String("subject", e.Subject),
			zap.Int("recipients", len(e.To)),
			zap.Error(err))
		return fmt.Errorf("mailer: send: %w", err)
	}
	m.log.Info("mail sent",
		zap.String("subject", e.Subject),
		zap.Int("recipients", len(e.To)))
	return nil
}

func (m *Mailer) build(e Email) []byte {
	var b strings.Builder
	msgID := uuid.NewString()

	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.To, ", "))
	if e.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", e.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	fmt.Fprintf(&b, "Message-ID: <%s@bloodlink>\r\n", msgID)
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(e.TextBody)
		return []byte(b.String())
	}

	boundary := "b-" + msgID
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.TextBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.HTMLBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
