package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/shahyash1136/budgetAPI/internal/config"
)

// Sender delivers transactional mail over SMTP.
type Sender struct {
	cfg config.SMTP
}

func NewSender(cfg config.SMTP) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) SendPasswordReset(_ context.Context, toEmail, resetURL string) error {
	if !s.cfg.Configured() {
		return fmt.Errorf("smtp not configured")
	}

	e := email.NewEmail()
	e.From = s.from()
	e.To = []string{toEmail}
	e.Subject = "Reset your password (valid for 10 minutes)"
	e.Text = []byte(strings.Join([]string{
		"You requested a password reset.",
		"",
		"Submit a PATCH request with your new password to:",
		resetURL,
		"",
		"If you did not request this, you can ignore this email.",
	}, "\n"))

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (s *Sender) from() string {
	if s.cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}
	return s.cfg.FromEmail
}
