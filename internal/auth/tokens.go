package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed
// token, elapsed expiry. Callers must not distinguish between them.
var ErrInvalidToken = errors.New("invalid session token")

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenClaims is the verified view handed back to the caller.
type TokenClaims struct {
	UserID   string
	Role     domain.Role
	IssuedAt time.Time
}

// TokenCodec issues and verifies signed session tokens. The secret is loaded
// once at startup; rotating it invalidates every outstanding token.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration

	// Now drives expiry checks during verification. Nil means time.Now.
	Now func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) TokenCodec {
	secretCopy := make([]byte, len(secret))
	copy(secretCopy, secret)
	return TokenCodec{secret: secretCopy, ttl: ttl}
}

func (c TokenCodec) Issue(userID string, role domain.Role, now time.Time) (string, error) {
	claims := SessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (c TokenCodec) Verify(tokenString string) (TokenClaims, error) {
	now := c.Now
	if now == nil {
		now = time.Now
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return TokenClaims{}, ErrInvalidToken
	}

	return TokenClaims{
		UserID:   claims.Subject,
		Role:     domain.Role(claims.Role),
		IssuedAt: claims.IssuedAt.Time,
	}, nil
}
