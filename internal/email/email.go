package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medtrack/medrecord-api/internal/config"
	"github.com/medtrack/medrecord-api/pkg/logger"
)

// Sender delivers plain-text mail over SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewSender(cfg config.SMTPConfig, log *logger.Logger) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

func (s *Sender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Debug("email sent", "to", to, "subject", subject)
	return nil
}
