package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/takuma-ones/ec-app/internal/users"
	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/db/models"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/security"
	"gorm.io/gorm"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "ec-app-test",
	ExpirationMinutes: 60,
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	created *users.CreateUserDTO
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = &dto
	return &models.User{ID: 42, Name: dto.Name, Email: dto.Email, Password: dto.PasswordHash}, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubAdminRepo struct {
	byEmail map[string]*models.Admin
}

func (s *stubAdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if admin, ok := s.byEmail[email]; ok {
		return admin, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessions struct {
	registered []string
	revoked    []string
}

func (s *stubSessions) Register(ctx context.Context, accessID, subject string) error {
	s.registered = append(s.registered, accessID)
	return nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newTestService(t *testing.T, userRepo *stubUserRepo, adminRepo *stubAdminRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		AdminRepo:      adminRepo,
		SessionManager: sessions,
		JWTConfig:      testJWTCfg,
		PasswordConfig: testPasswordCfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestSignUpCreatesUserAndSession(t *testing.T) {
	userRepo := &stubUserRepo{byEmail: map[string]*models.User{}}
	sessions := &stubSessions{}
	svc := newTestService(t, userRepo, &stubAdminRepo{}, sessions)

	resp, err := svc.SignUp(context.Background(), SignUpRequest{
		Name:     "  Hanako  ",
		Email:    "Hanako@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if userRepo.created == nil {
		t.Fatal("expected user to be created")
	}
	if userRepo.created.Name != "Hanako" {
		t.Fatalf("unexpected name %q", userRepo.created.Name)
	}
	if userRepo.created.Email != "hanako@example.com" {
		t.Fatalf("expected lowercased email, got %q", userRepo.created.Email)
	}
	if strings.Contains(userRepo.created.PasswordHash, "correct horse") {
		t.Fatal("password stored in plain text")
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if len(sessions.registered) != 1 {
		t.Fatalf("expected one registered session, got %d", len(sessions.registered))
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	userRepo := &stubUserRepo{byEmail: map[string]*models.User{
		"taken@example.com": {ID: 1, Email: "taken@example.com"},
	}}
	svc := newTestService(t, userRepo, &stubAdminRepo{}, &stubSessions{})

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Name:     "Taro",
		Email:    "taken@example.com",
		Password: "irrelevant",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	hash := mustHash(t, "open sesame")
	userRepo := &stubUserRepo{byEmail: map[string]*models.User{
		"taro@example.com": {ID: 7, Name: "Taro", Email: "taro@example.com", Password: hash},
	}}
	sessions := &stubSessions{}
	svc := newTestService(t, userRepo, &stubAdminRepo{}, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "taro@example.com",
		Password: "open sesame",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User == nil || resp.User.ID != 7 {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "taro@example.com",
		Password: "wrong",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubAdminRepo{}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "anything",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	hash := mustHash(t, "console pass")
	adminRepo := &stubAdminRepo{byEmail: map[string]*models.Admin{
		"ops@example.com": {ID: 3, Name: "Ops", Email: "ops@example.com", Password: hash},
	}}
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, adminRepo, &stubSessions{})

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    "ops@example.com",
		Password: "console pass",
	})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if resp.AdminID != 3 || resp.AccessToken == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubAdminRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-123" {
		t.Fatalf("unexpected revocations %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), "  "); err == nil {
		t.Fatal("expected validation error for blank access ID")
	}
}
