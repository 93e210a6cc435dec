package jobs

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers mail through a plain SMTP relay such as Mailpit.
type SMTPSender struct {
	Addr string
	From string
}

// Send composes and submits a single message.
func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg.String()))
}

var _ Sender = (*SMTPSender)(nil)
