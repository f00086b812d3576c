package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains login credentials
type LoginInput struct {
	CenterCode string
	Username   string
	Password   string
	IP         string
}

// UserInfo represents the authenticated user's public profile
type UserInfo struct {
	ID          uuid.UUID   `json:"id"`
	CenterID    uuid.UUID   `json:"center_id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Permissions []string    `json:"permissions"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
}

// LoginResult contains tokens and user info after a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains a refresh token
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the refreshed token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the session being terminated
type LogoutInput struct {
	CenterID    uuid.UUID
	UserID      uuid.UUID
	AccessToken string
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	CenterID    uuid.UUID
	Username    string
	Password    string
	Email       string
	Phone       string
	DisplayName string
	TeacherID   *uuid.UUID
	RoleIDs     []uuid.UUID
}

// UpdateUserInput contains input for updating a user
type UpdateUserInput struct {
	CenterID    uuid.UUID
	ID          uuid.UUID
	Email       *string
	Phone       *string
	DisplayName *string
}

// UserDTO represents a user
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	CenterID    uuid.UUID   `json:"center_id"`
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	DisplayName string      `json:"display_name"`
	Status      string      `json:"status"`
	TeacherID   *uuid.UUID  `json:"teacher_id,omitempty"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CenterDTO represents a center
type CenterDTO struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Timezone     string    `json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
}
