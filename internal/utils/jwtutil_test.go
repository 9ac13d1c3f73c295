package utils

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, exp, err := GenerateToken(secret, 42, "client@example.com", "client", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if time.Until(exp) > time.Hour || time.Until(exp) < 59*time.Minute {
		t.Errorf("unexpected expiry: %v", exp)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserId != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserId)
	}
	if claims.Email != "client@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if claims.Role != "client" {
		t.Errorf("unexpected role %q", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateToken([]byte("right"), 1, "a@b.c", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ParseToken([]byte("wrong"), token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, _, err := GenerateToken(secret, 1, "a@b.c", "client", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ParseToken(secret, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
