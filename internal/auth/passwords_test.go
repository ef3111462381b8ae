package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Str0ng!Pass" || strings.Contains(hash, "Str0ng!Pass") {
		t.Fatalf("hash leaks plaintext: %s", hash)
	}
	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "Str0ng!Pass")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := VerifyPassword(hash, "wrong-password")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := VerifyPassword("not-a-bcrypt-hash", "anything"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
}
