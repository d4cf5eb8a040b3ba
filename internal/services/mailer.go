package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer is the outbound notification adapter. Sending is fire-and-forget at
// the call sites; a failed send never fails the request that triggered it.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(dialer *gomail.Dialer, from string) *SMTPMailer {
	return &SMTPMailer{dialer: dialer, from: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %v", to, err)
	}
	return nil
}
