package auth

import "testing"

func TestNewResetToken(t *testing.T) {
	raw, digest, err := NewResetToken()
	if err != nil {
		t.Fatalf("new reset token: %v", err)
	}
	if len(raw) != 43 { // 32 bytes, base64url without padding
		t.Fatalf("unexpected raw length: %d", len(raw))
	}
	if len(digest) != 64 {
		t.Fatalf("unexpected digest length: %d", len(digest))
	}
	if digest != HashResetToken(raw) {
		t.Fatalf("digest does not match rederived hash")
	}

	raw2, digest2, err := NewResetToken()
	if err != nil {
		t.Fatalf("new reset token: %v", err)
	}
	if raw == raw2 || digest == digest2 {
		t.Fatalf("tokens must be unique")
	}
}

func TestHashResetTokenDeterministic(t *testing.T) {
	if HashResetToken("abc") != HashResetToken("abc") {
		t.Fatalf("digest must be deterministic")
	}
	if HashResetToken("abc") == HashResetToken("abd") {
		t.Fatalf("distinct inputs must not collide")
	}
}
