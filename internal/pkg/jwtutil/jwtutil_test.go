package jwtutil

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, "user@example.edu", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "user@example.edu" {
		t.Fatalf("unexpected email claim: %q", claims.Email)
	}
	if claims.UserType != "student" {
		t.Fatalf("unexpected user type claim: %q", claims.UserType)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, "user@example.edu", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected an error for a wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", -time.Minute, "user@example.edu", "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected an error for an expired token")
	}
}
