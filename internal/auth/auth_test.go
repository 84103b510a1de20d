package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCookieRoundTrip(t *testing.T) {
	s := NewCookieSigner("test-secret", time.Hour)

	signed := s.Sign("user-123")
	value, err := s.Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if value != "user-123" {
		t.Errorf("Expected 'user-123', got '%s'", value)
	}

	if _, err := NewCookieSigner("other-secret", time.Hour).Verify(signed); !errors.Is(err, ErrBadSignature) {
		t.Errorf("Expected ErrBadSignature with another secret, got %v", err)
	}
}

func TestCookieRejectsMalformed(t *testing.T) {
	s := NewCookieSigner("test-secret", time.Hour)

	for _, v := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.0.sig", "dXNlcg.soon.c2ln", "dXNlcg.0.!!!"} {
		if _, err := s.Verify(v); !errors.Is(err, ErrMalformedCookie) {
			t.Errorf("Expected ErrMalformedCookie for %q, got %v", v, err)
		}
	}
}

func TestCookieTamperedExpiry(t *testing.T) {
	s := NewCookieSigner("test-secret", time.Minute)
	parts := strings.Split(s.Sign("user-1"), ".")
	parts[1] = "0"

	if _, err := s.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrBadSignature) {
		t.Errorf("Expected ErrBadSignature after dropping the expiry, got %v", err)
	}
}

func TestCookieExpired(t *testing.T) {
	s := NewCookieSigner("test-secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	signed := s.Sign("user-1")
	s.now = time.Now

	if _, err := s.Verify(signed); !errors.Is(err, ErrCookieExpired) {
		t.Errorf("Expected ErrCookieExpired, got %v", err)
	}

	forever := NewCookieSigner("test-secret", 0)
	if _, err := forever.Verify(forever.Sign("user-1")); err != nil {
		t.Errorf("Expected cookie without expiry to verify, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("jwt-secret", time.Hour)

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Expected 'user-1', got '%s'", userID)
	}

	if _, err := NewTokenIssuer("wrong", time.Hour).Verify(token); err == nil {
		t.Error("Expected token signed with another secret to fail")
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("jwt-secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _ := issuer.Issue("user-1")
	issuer.now = time.Now

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Expected expired token to fail")
	}
}
