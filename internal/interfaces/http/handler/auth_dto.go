package handler

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	CenterCode string `json:"center_code" binding:"required,min=2,max=50"`
	Username   string `json:"username" binding:"required,min=2,max=100"`
	Password   string `json:"password" binding:"required,min=1,max=128"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AuthUserResponse represents the authenticated user in auth responses
type AuthUserResponse struct {
	ID          uuid.UUID `json:"id"`
	CenterID    uuid.UUID `json:"center_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Permissions []string  `json:"permissions"`
	RoleIDs     []string  `json:"role_ids"`
}

// LoginResponse represents the login response body
type LoginResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshTokenRequest represents the refresh token request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse represents the refresh token response body
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse represents the logout response body
type LogoutResponse struct {
	Message string `json:"message"`
}

// CurrentUserResponse represents the current user response body
type CurrentUserResponse struct {
	User AuthUserResponse `json:"user"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}
