package mailer

import (
	"fmt"

	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends account emails. The usecase layer depends on this interface
// so tests can substitute a mock.
type Mailer interface {
	SendVerificationEmail(toEmail, toName, token string) error
}

// SMTPMailer delivers mail over SMTP.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
	logger  *logger.Logger
}

func NewSMTPMailer(host string, port int, user, password, from, baseURL string, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(host, port, user, password),
		from:    from,
		baseURL: baseURL,
		logger:  log.Named("SMTPMailer"),
	}
}

// SendVerificationEmail mails a single-use verification link.
func (m *SMTPMailer) SendVerificationEmail(toEmail, toName, token string) error {
	verifyURL := fmt.Sprintf("%s/api/auth/verify-email?token=%s", m.baseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Verify your EasyHome account")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nPlease verify your email address by opening the link below:\n\n%s\n\nIf you did not create an account, you can ignore this message.\n",
		toName, verifyURL,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send verification email", zap.String("to", toEmail), zap.Error(err))
		return fmt.Errorf("failed to send verification email to %s: %w", toEmail, err)
	}

	m.logger.Info("verification email sent", zap.String("to", toEmail))
	return nil
}
