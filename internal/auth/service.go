package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/takuma-ones/ec-app/internal/users"
	pkgauth "github.com/takuma-ones/ec-app/pkg/auth"
	"github.com/takuma-ones/ec-app/pkg/auth/session"
	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/db/models"
	"github.com/takuma-ones/ec-app/pkg/enums"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type sessionManager interface {
	Register(ctx context.Context, accessID, subject string) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users       userRepository
	admins      adminRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	AdminRepo      adminRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.AdminRepo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		admins:      params.AdminRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// SignUp creates a storefront account and logs it in.
func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*LoginResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueUserSession(ctx, user)
}

// Login authenticates a storefront user.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if err := verifyCredential(req.Password, user.Password); err != nil {
		return nil, err
	}

	return s.issueUserSession(ctx, user)
}

// AdminLogin authenticates a console operator.
func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	if err := verifyCredential(req.Password, admin.Password); err != nil {
		return nil, err
	}

	accessToken, _, err := s.mintSession(ctx, admin.ID, enums.ActorRoleAdmin)
	if err != nil {
		return nil, err
	}

	return &AdminLoginResponse{
		AccessToken: accessToken,
		AdminID:     admin.ID,
		Name:        admin.Name,
		Email:       admin.Email,
	}, nil
}

// Logout revokes the server-side session for the given token ID.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access ID is required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) issueUserSession(ctx context.Context, user *models.User) (*LoginResponse, error) {
	accessToken, _, err := s.mintSession(ctx, user.ID, enums.ActorRoleUser)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		AccessToken: accessToken,
		User:        users.FromModel(user),
	}, nil
}

func (s *service) mintSession(ctx context.Context, subjectID int, role enums.ActorRole) (string, string, error) {
	accessID := session.NewAccessID()
	payload := pkgauth.AccessTokenPayload{
		SubjectID: subjectID,
		Role:      role,
		JTI:       accessID,
	}
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), payload)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Register(ctx, accessID, strconv.Itoa(subjectID)); err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register session")
	}
	return accessToken, accessID, nil
}

func verifyCredential(password, encoded string) error {
	valid, err := security.VerifyPassword(password, encoded)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
