// Package mail delivers confirmation codes out of band.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"yamdb/internal/config"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmationMessage builds the mail carrying a confirmation code.
func ConfirmationMessage(from, to, code string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "Your confirmation code",
		Body: fmt.Sprintf(
			"Use this code to obtain an access token:\n\n%s\n\nIf you did not request it, ignore this mail.\n",
			code,
		),
	}
}

// NewSender picks the backend named by cfg.MailBackend.
func NewSender(cfg *config.Config, logger *slog.Logger) Sender {
	if cfg.MailBackend == "smtp" {
		return NewSMTPSender(cfg.SMTPAddr(), cfg.SMTPHost, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return NewLogSender(logger)
}

// LogSender writes mail to the log instead of sending it. Used in development.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "mail",
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

type SMTPSender struct {
	addr string
	auth smtp.Auth
}

// NewSMTPSender authenticates with PLAIN auth when a username is set.
func NewSMTPSender(addr, host, username, password string) *SMTPSender {
	s := &SMTPSender{addr: addr}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := smtp.SendMail(s.addr, s.auth, msg.From, []string{msg.To}, encode(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func encode(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
