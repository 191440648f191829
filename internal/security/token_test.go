package security

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestResetToken_RoundTrip(t *testing.T) {
	token, err := GenerateResetToken(testSecret, "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	email, err := VerifyResetToken(testSecret, token, time.Hour)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "jane@x.com" {
		t.Fatalf("expected email=%q, got %q", "jane@x.com", email)
	}
}

func TestResetToken_Expired(t *testing.T) {
	token, err := GenerateResetToken(testSecret, "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// A negative window makes any token older than its max age.
	if _, errVerify := VerifyResetToken(testSecret, token, -time.Second); !errors.Is(errVerify, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", errVerify)
	}
}

func TestResetToken_Tampered(t *testing.T) {
	token, err := GenerateResetToken(testSecret, "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	mutated := token[:len(token)-2] + "xx"
	if _, errVerify := VerifyResetToken(testSecret, mutated, time.Hour); !errors.Is(errVerify, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", errVerify)
	}
}

func TestResetToken_WrongSecret(t *testing.T) {
	token, err := GenerateResetToken(testSecret, "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, errVerify := VerifyResetToken("other-secret", token, time.Hour); !errors.Is(errVerify, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", errVerify)
	}
}

func TestResetToken_PurposeSeparation(t *testing.T) {
	// A session token signed with the same secret must not redeem as a
	// reset token.
	session, err := NewSessionToken(testSecret, "jane.doe.sou", "Researcher", "MINN250715JD482963", time.Hour)
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	if _, errVerify := VerifyResetToken(testSecret, session, time.Hour); !errors.Is(errVerify, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for cross-purpose token, got %v", errVerify)
	}
}

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := NewSessionToken(testSecret, "jane.doe.sou", "Researcher", "MINN250715JD482963", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseSessionToken(testSecret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Username != "jane.doe.sou" || claims.Role != "Researcher" || claims.UserID != "MINN250715JD482963" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := NewSessionToken(testSecret, "jane.doe.sou", "Researcher", "MINN250715JD482963", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, errParse := ParseSessionToken(testSecret, token); !errors.Is(errParse, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired session, got %v", errParse)
	}
}
