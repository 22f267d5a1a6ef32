package auth

import (
	"time"

	"github.com/medplus/academy-api/internal/domain/user"
)

// RegisterRequest for POST /auth/register
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	SpecialtyID int64  `json:"specialty_id" validate:"required,gt=0"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DeviceToken string `json:"device_token" validate:"required,min=8,max=255"`
}

// RefreshRequest for POST /auth/refresh and /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// VerifyRequest for POST /auth/verify
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ForgotPasswordRequest for POST /auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest for POST /auth/reset-password
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UpdateProfileRequest for PUT /auth/me
type UpdateProfileRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	SpecialtyID int64  `json:"specialty_id" validate:"required,gt=0"`
}

// ChangePasswordRequest for PUT /auth/me/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// RegisterResponse returned after registration
type RegisterResponse struct {
	User             UserResponse `json:"user"`
	VerificationSent bool         `json:"verification_sent"`
}

// AuthResponse returned after login/refresh
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// UserResponse represents user in API response
type UserResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	SpecialtyID   int64  `json:"specialty_id"`
	SpecialtyName string `json:"specialty_name,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	WalletBalance int64  `json:"wallet_balance"`
	CreatedAt     string `json:"created_at"`
}

// TokensResponse represents tokens in API response
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// NewUserResponse creates UserResponse from the user entity
func NewUserResponse(u *user.User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		SpecialtyID:   u.SpecialtyID,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		WalletBalance: u.WalletBalance,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
	if u.SpecialtyName.Valid {
		resp.SpecialtyName = u.SpecialtyName.String
	}
	return resp
}
