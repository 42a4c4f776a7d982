package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "ec-app",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	payload := AccessTokenPayload{
		SubjectID: 42,
		Role:      enums.ActorRoleUser,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.SubjectID != 42 {
		t.Fatalf("expected subject_id 42, got %d", claims.SubjectID)
	}
	if claims.Role != enums.ActorRoleUser {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "ec-app",
		ExpirationMinutes: 10,
	}
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{SubjectID: 1, Role: enums.ActorRoleAdmin})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "ec-app", ExpirationMinutes: 10}
	now := time.Now()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{SubjectID: 0, Role: enums.ActorRoleUser}); err == nil {
		t.Fatal("expected error for missing subject id")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{SubjectID: 1, Role: "shopper"}); err == nil {
		t.Fatal("expected error for unknown role")
	}

	bare := cfg
	bare.Secret = ""
	if _, err := MintAccessToken(bare, now, AccessTokenPayload{SubjectID: 1, Role: enums.ActorRoleUser}); err == nil || !strings.Contains(err.Error(), "secret") {
		t.Fatalf("expected secret error, got %v", err)
	}
}
