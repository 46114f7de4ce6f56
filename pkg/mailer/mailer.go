package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer sends transactional mail. Used once per registration to deliver the
// verification link.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Config holds SMTP connection details.
type Config struct {
	Host string
	Port string
	From string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a mailer for the configured relay.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one HTML message.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n" +
		htmlBody

	if err := smtp.SendMail(addr, nil, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
