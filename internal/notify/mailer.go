package notify

import (
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a single message. Delivery is fire-and-forget: there is no
// retry and no confirmation, and a transport error surfaces to the caller.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns a mailer for the given relay. User/password may be
// empty for an open relay.
func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// logMailer is the default until SetMailer is called: it logs instead of
// sending, so development setups work without an SMTP relay.
type logMailer struct{}

func (logMailer) Send(to []string, subject, _ string) error {
	log.Printf("mail (not sent, no relay configured): to=%v subject=%q", to, subject)
	return nil
}

var mailer Mailer = logMailer{}

// SetMailer installs the mailer used by the dispatch functions.
func SetMailer(m Mailer) {
	mailer = m
}
