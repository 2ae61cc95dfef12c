package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"task-assignment.com/task-assignment/internal/constants"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the password")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if VerifyPassword("not-a-hash", "s3cret") {
		t.Error("expected garbage hash to fail")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	signed, issued, err := issuer.Issue(42, constants.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Errorf("expected user 42, got %d (%v)", id, err)
	}
	if claims.Role != constants.RoleAdmin || claims.ID != issued.ID {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenIssuer_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	other := NewTokenIssuer("other-secret", time.Minute)

	signed, _, _ := other.Issue(1, constants.RoleUser)
	if _, err := issuer.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected invalid token, got %v", err)
	}

	signed, _, _ = issuer.Issue(1, constants.RoleUser)
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := issuer.Parse(signed); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected expired token, got %v", err)
	}
}

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	ctx := context.Background()

	if revoked, _ := r.IsRevoked(ctx, "abc"); revoked {
		t.Fatal("nothing revoked yet")
	}

	_ = r.Revoke(ctx, "abc", time.Now().Add(time.Hour))
	if revoked, _ := r.IsRevoked(ctx, "abc"); !revoked {
		t.Error("expected token to be revoked")
	}

	r.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if revoked, _ := r.IsRevoked(ctx, "abc"); revoked {
		t.Error("revocation should lapse with the token")
	}
}
