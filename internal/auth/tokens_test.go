package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

func TestTokenCodecRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	codec.Now = func() time.Time { return now.Add(time.Minute) }

	token, err := codec.Issue("user-1", domain.RoleAdmin, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if !claims.IssuedAt.Equal(now.Truncate(time.Second)) {
		t.Fatalf("unexpected issued at: %s", claims.IssuedAt)
	}
}

func TestTokenCodecExpired(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	codec.Now = func() time.Time { return now.Add(time.Hour + time.Second) }

	token, err := codec.Issue("user-1", domain.RoleUser, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestTokenCodecWrongSecret(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	verifier := NewTokenCodec([]byte("another-secret-another-secret-00"), time.Hour)
	verifier.Now = func() time.Time { return now }

	token, err := issuer.Issue("user-1", domain.RoleUser, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestTokenCodecMalformed(t *testing.T) {
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected invalid token, got %v", token, err)
		}
	}
}
