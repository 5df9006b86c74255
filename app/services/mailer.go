package services

import (
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/config"
)

// Mailer sends a single message. SMTPMailer is the production implementation;
// tests substitute an in-memory recorder under the same container identity.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer simulates an outbound mail client: it narrates each send through
// the structured logger instead of opening a real SMTP session. Constructing
// one stands in for the expensive handshake a real client would perform.
type SMTPMailer struct {
	host string
	from string
	log  *logrus.Logger
}

// NewSMTPMailer builds a mailer from the mail config section.
func NewSMTPMailer(cfg config.MailConfig, log *logrus.Logger) *SMTPMailer {
	log.WithFields(logrus.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
	}).Debug("mailer: connecting")
	return &SMTPMailer{
		host: cfg.Host + ":" + cfg.Port,
		from: cfg.From,
		log:  log,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	m.log.WithFields(logrus.Fields{
		"host":    m.host,
		"from":    m.from,
		"to":      to,
		"subject": subject,
	}).Info("mailer: message sent")
	return nil
}
