package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/auth"
	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type ResetUsersStore interface {
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithCredentials, error)
	SetResetToken(ctx context.Context, id, digest string, expires time.Time) error
	GetUserByResetDigest(ctx context.Context, digest string, now time.Time) (domain.UserWithCredentials, error)
	ResetPassword(ctx context.Context, id, passwordHash string, when time.Time) (domain.User, error)
}

type ResetMailer interface {
	SendPasswordReset(ctx context.Context, toEmail, resetURL string) error
}

const mailSendTimeout = 15 * time.Second

type PasswordResetService struct {
	Users     ResetUsersStore
	Mailer    ResetMailer
	Tokens    auth.TokenCodec
	TokenTTL  time.Duration
	PublicURL *url.URL
	Logger    *slog.Logger
	Now       func() time.Time

	// mailDone, when non-nil, receives the outcome of each async send.
	// Tests use it to wait for the fire-and-forget dispatch.
	mailDone chan error
}

func (s *PasswordResetService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PasswordResetService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ForgotPassword never reveals whether the address is registered: unknown and
// disabled accounts take the same successful path as real ones.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.NewValidationError(map[string]string{"email": "required"})
	}
	if !validEmail(email) {
		return domain.NewValidationError(map[string]string{"email": "must be a valid email"})
	}

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !u.IsActive {
		return nil
	}

	raw, digest, err := auth.NewResetToken()
	if err != nil {
		return err
	}

	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	if err := s.Users.SetResetToken(ctx, u.ID, digest, s.now().Add(ttl)); err != nil {
		return err
	}

	resetURL := s.resetLink(raw)
	go s.deliverResetMail(email, resetURL)

	return nil
}

// deliverResetMail runs detached from the request: a broken SMTP relay must
// not turn into a user-visible error, but it has to show up in the logs.
func (s *PasswordResetService) deliverResetMail(toEmail, resetURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
	defer cancel()

	err := s.Mailer.SendPasswordReset(ctx, toEmail, resetURL)
	if err != nil {
		s.logger().Error("send reset email failed", "err", err)
	}
	if s.mailDone != nil {
		s.mailDone <- err
	}
}

func (s *PasswordResetService) ResetPassword(ctx context.Context, rawToken, newPassword, confirmPassword string) (domain.User, string, error) {
	rawToken = strings.TrimSpace(rawToken)
	newPassword = strings.TrimSpace(newPassword)
	confirmPassword = strings.TrimSpace(confirmPassword)

	fields := map[string]string{}
	if rawToken == "" {
		fields["token"] = "required"
	}
	if newPassword == "" {
		fields["newPassword"] = "required"
	}
	if confirmPassword == "" {
		fields["confirmPassword"] = "required"
	}
	if len(fields) > 0 {
		return domain.User{}, "", domain.NewValidationError(fields)
	}

	now := s.now()

	// One lookup covers unknown and expired digests so the error cannot
	// leak which case occurred.
	digest := auth.HashResetToken(rawToken)
	u, err := s.Users.GetUserByResetDigest(ctx, digest, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrResetTokenInvalid
		}
		return domain.User{}, "", err
	}

	if !strongPassword(newPassword) {
		return domain.User{}, "", domain.NewValidationError(map[string]string{"newPassword": "weak password: need 8+ chars with lower, upper, digit and symbol"})
	}
	if newPassword != confirmPassword {
		return domain.User{}, "", domain.NewValidationError(map[string]string{"confirmPassword": "does not match new password"})
	}

	same, err := auth.VerifyPassword(u.PasswordHash, newPassword)
	if err != nil {
		return domain.User{}, "", err
	}
	if same {
		return domain.User{}, "", domain.NewValidationError(map[string]string{"newPassword": "cannot reuse the current password"})
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return domain.User{}, "", err
	}

	updated, err := s.Users.ResetPassword(ctx, u.ID, hash, now)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.Tokens.Issue(updated.ID, updated.Role, now)
	if err != nil {
		return domain.User{}, "", err
	}
	return updated, token, nil
}

func (s *PasswordResetService) resetLink(rawToken string) string {
	base := &url.URL{Scheme: "http", Host: "localhost:8080"}
	if s.PublicURL != nil {
		u := *s.PublicURL
		base = &u
	}
	base.Path = "/api/v1/users/reset-password"
	base.RawQuery = "token=" + url.QueryEscape(rawToken)
	return base.String()
}
