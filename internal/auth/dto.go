package auth

import "github.com/takuma-ones/ec-app/internal/users"

// SignUpRequest is the payload for storefront account creation.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the credential payload shared by user and admin login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the minted token and the authenticated profile.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	User        *users.UserDTO `json:"user"`
}

// AdminLoginResponse carries the minted token for a console operator.
type AdminLoginResponse struct {
	AccessToken string `json:"accessToken"`
	AdminID     int    `json:"adminId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}
