package auth

import (
	"testing"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/common/config"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "swiftparcel",
		Audience:  "swiftparcel",
	}

	token, exp, err := GenerateAccessToken(cfg, "u-1", "13800000000", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if exp.Before(time.Now()) {
		t.Fatalf("expected exp in future")
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if claims.Phone != "13800000000" {
		t.Fatalf("phone mismatch: %s", claims.Phone)
	}
}

func TestParseAccessTokenRejectsBadSecret(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret-a", Issuer: "swiftparcel"}
	token, _, err := GenerateAccessToken(cfg, "u-1", "13800000000", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(config.AuthConfig{JWTSecret: "secret-b"}, token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}
