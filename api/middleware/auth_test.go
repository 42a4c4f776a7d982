package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/takuma-ones/ec-app/pkg/auth"
	"github.com/takuma-ones/ec-app/pkg/auth/session"
	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/enums"
)

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, 7, enums.ActorRoleUser)

	handler := Auth(cfg, stubSessionVerifier{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, 42, enums.ActorRoleUser)

	var captured struct {
		subject  int
		role     string
		accessID string
	}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.subject = SubjectIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		captured.accessID = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.subject != 42 {
		t.Fatalf("expected subject 42 got %d", captured.subject)
	}
	if captured.role != string(enums.ActorRoleUser) {
		t.Fatalf("expected role user got %s", captured.role)
	}
	if captured.accessID == "" {
		t.Fatal("expected access id in context")
	}
}

func TestRequireRoleBlocksOtherActors(t *testing.T) {
	handler := RequireRole(enums.ActorRoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.ActorRoleUser)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.ActorRoleAdmin)))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, subjectID int, role enums.ActorRole) string {
	t.Helper()
	payload := auth.AccessTokenPayload{
		SubjectID: subjectID,
		Role:      role,
		JTI:       session.NewAccessID(),
	}
	token, err := auth.MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
