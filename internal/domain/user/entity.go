package user

import (
	"database/sql"
	"time"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Status represents account status (matches user_status enum)
type Status string

const (
	StatusActive Status = "active"
	StatusBanned Status = "banned"
)

// User represents a student or staff account (matches users table)
type User struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	Phone         string `db:"phone" json:"phone"`
	SpecialtyID   int64  `db:"specialty_id" json:"specialty_id"`
	PasswordHash  string `db:"password_hash" json:"-"`
	Role          Role   `db:"role" json:"role"`
	Status        Status `db:"status" json:"status"`
	EmailVerified bool   `db:"email_verified" json:"email_verified"`
	WalletBalance int64  `db:"wallet_balance" json:"wallet_balance"`

	SpecialtyName sql.NullString `db:"specialty_name" json:"specialty_name,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin returns true for staff accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsActive returns true if the account is not banned
func (u *User) IsActive() bool {
	return u.Status != StatusBanned
}

// Session is a registered login device for a user
type Session struct {
	UserID      int64     `db:"user_id" json:"user_id"`
	DeviceToken string    `db:"device_token" json:"device_token"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
