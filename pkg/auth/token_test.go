package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "catalog-backend",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	now := time.Now()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Email:  "gerente@admin.com",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s got %s", userID, claims.UserID)
	}
	if claims.Email != "gerente@admin.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != RoleAdmin {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now()
	payload := AccessTokenPayload{UserID: uuid.New()}

	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, now, payload); err == nil {
		t.Fatal("expected error for missing secret")
	}

	cfg = testJWTConfig()
	cfg.ExpirationMinutes = 0
	if _, err := MintAccessToken(cfg, now, payload); err == nil {
		t.Fatal("expected error for non-positive expiration")
	}

	if _, err := MintAccessToken(testJWTConfig(), now, AccessTokenPayload{}); err == nil {
		t.Fatal("expected error for nil user id")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), JTI: "fixed-jti"}

	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), payload)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail strict parse")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	if claims.ID != "fixed-jti" {
		t.Fatalf("expected jti to survive lenient parse, got %q", claims.ID)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "another-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch")
	}
}
