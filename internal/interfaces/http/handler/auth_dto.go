package handler

import (
	"time"

	"github.com/google/uuid"
)

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for obtaining a token pair
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh.
// The field may be omitted when the refresh cookie is enabled.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

// VerifyTokenRequest represents the request body for token verification
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenPairResponse represents an issued access/refresh token pair
type TokenPairResponse struct {
	Access         string    `json:"access"`
	Refresh        string    `json:"refresh"`
	AccessExpires  time.Time `json:"access_expires"`
	RefreshExpires time.Time `json:"refresh_expires"`
	TokenType      string    `json:"token_type"`
}

// AuthUserResponse represents user data in auth responses
type AuthUserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	FullName    string    `json:"full_name,omitempty"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	TokenPairResponse
	User AuthUserResponse `json:"user"`
}

// VerifyTokenResponse represents the decoded claims of a valid access token
type VerifyTokenResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CurrentUserResponse represents the response body for current user info
type CurrentUserResponse struct {
	User        AuthUserResponse `json:"user"`
	LabGroupIDs []uuid.UUID      `json:"lab_group_ids"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}
