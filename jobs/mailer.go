package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers plain-text notification emails over SMTP. It is built
// for a local Mailpit-style relay, so no auth is attempted.
type Mailer struct {
	addr   string
	from   string
	logger *slog.Logger
}

// NewMailer constructs a Mailer for the given host:port relay.
func NewMailer(host string, port int, from string, logger *slog.Logger) *Mailer {
	return &Mailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		from:   from,
		logger: logger,
	}
}

// Send delivers a single message. Errors bubble up so Asynq can retry.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return nil
	}
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("jobs: send mail: %w", err)
	}
	if m.logger != nil {
		m.logger.Info("notification mail sent", slog.String("to", to), slog.String("subject", subject))
	}
	return nil
}
