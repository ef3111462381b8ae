package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/auth"
	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type UsersStore interface {
	CreateUser(ctx context.Context, firstName, lastName, username, email, passwordHash string) (domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithCredentials, error)
	GetCredentialsByID(ctx context.Context, id string) (domain.UserWithCredentials, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, when time.Time) (domain.User, error)
}

// AuthService owns the credential lifecycle: signup, login, the token gate,
// and password change.
type AuthService struct {
	Users  UsersStore
	Tokens auth.TokenCodec
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Signup(ctx context.Context, firstName, lastName, username, email, password string) (domain.User, string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "required"
	} else if !validUsername(username) {
		fields["username"] = "must be 3-24 chars [A-Za-z0-9_]"
	}
	if email == "" {
		fields["email"] = "required"
	} else if !validEmail(email) {
		fields["email"] = "must be a valid email"
	}
	if password == "" {
		fields["password"] = "required"
	} else if !strongPassword(password) {
		fields["password"] = "weak password: need 8+ chars with lower, upper, digit and symbol"
	}
	if len(fields) > 0 {
		return domain.User{}, "", domain.NewValidationError(fields)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	// Advisory check only. Concurrent signups race past it; the unique
	// indexes are the invariant and surface as ErrUserExists below.
	exists, err := s.Users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return domain.User{}, "", err
	}
	if exists {
		return domain.User{}, "", domain.ErrUserExists
	}

	u, err := s.Users.CreateUser(ctx, firstName, lastName, username, email, passwordHash)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.Tokens.Issue(u.ID, u.Role, s.now())
	if err != nil {
		return domain.User{}, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	fields := map[string]string{}
	if email == "" {
		fields["email"] = "required"
	} else if !validEmail(email) {
		fields["email"] = "must be a valid email"
	}
	if password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		return domain.User{}, "", domain.NewValidationError(fields)
	}

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same error as a bad password so callers cannot probe
			// which accounts exist.
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return domain.User{}, "", err
	}
	if !ok {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if !u.IsActive {
		return domain.User{}, "", domain.ErrUserDisabled
	}

	token, err := s.Tokens.Issue(u.ID, u.Role, s.now())
	if err != nil {
		return domain.User{}, "", err
	}
	return u.User, token, nil
}

// UserForToken is the route-protection gate. It verifies the token, reloads
// the user, and rejects tokens issued before the last password change.
func (s *AuthService) UserForToken(ctx context.Context, tokenString string) (domain.User, error) {
	claims, err := s.Tokens.Verify(tokenString)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}

	u, err := s.Users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	if !u.IsActive {
		return domain.User{}, domain.ErrUserDisabled
	}
	if u.PasswordChangedAt != nil && u.PasswordChangedAt.Unix() > claims.IssuedAt.Unix() {
		return domain.User{}, domain.ErrUnauthorized
	}

	return u, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) (domain.User, string, error) {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	confirmPassword = strings.TrimSpace(confirmPassword)

	fields := map[string]string{}
	if currentPassword == "" {
		fields["currentPassword"] = "required"
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
	if newPassword != confirmPassword {
		return domain.User{}, "", domain.NewValidationError(map[string]string{"confirmPassword": "does not match new password"})
	}
	if !strongPassword(newPassword) {
		return domain.User{}, "", domain.NewValidationError(map[string]string{"newPassword": "weak password: need 8+ chars with lower, upper, digit and symbol"})
	}

	// Reload from the store; the context user may be stale.
	u, err := s.Users.GetCredentialsByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrUnauthorized
		}
		return domain.User{}, "", err
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, currentPassword)
	if err != nil {
		return domain.User{}, "", err
	}
	if !ok {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if currentPassword == newPassword {
		return domain.User{}, "", domain.NewValidationError(map[string]string{"newPassword": "cannot reuse the current password"})
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return domain.User{}, "", err
	}

	now := s.now()
	updated, err := s.Users.UpdatePassword(ctx, u.ID, hash, now)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.Tokens.Issue(updated.ID, updated.Role, now)
	if err != nil {
		return domain.User{}, "", err
	}
	return updated, token, nil
}
