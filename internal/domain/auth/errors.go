package auth

import "errors"

var (
	ErrEmailAlreadyExists   = errors.New("email or phone already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserBanned           = errors.New("user is banned")
	ErrDeviceLimitReached   = errors.New("device limit reached")
	ErrInvalidCode          = errors.New("invalid or expired verification code")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrSpecialtyNotFound    = errors.New("specialty not found")
)
