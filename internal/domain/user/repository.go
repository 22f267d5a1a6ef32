package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailOrPhone(ctx context.Context, email, phone string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateEmailVerified(ctx context.Context, id int64, verified bool) error
	UpdateRole(ctx context.Context, id int64, role Role) error
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// Sessions (device limit)
	ListSessions(ctx context.Context, userID int64) ([]*Session, error)
	AddSession(ctx context.Context, userID int64, deviceToken string) error
	DeleteSessions(ctx context.Context, userID int64) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, email, phone, specialty_id, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.SpecialtyID,
		user.PasswordHash,
		user.Role,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("user repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.phone, u.specialty_id, u.password_hash,
		       u.role, u.status, u.email_verified, u.wallet_balance,
		       s.name AS specialty_name, u.created_at, u.updated_at
		FROM users u
		LEFT JOIN specialties s ON u.specialty_id = s.id
		WHERE u.id = $1
	`
	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, phone, specialty_id, password_hash,
		       role, status, email_verified, wallet_balance, created_at, updated_at
		FROM users WHERE email = $1
	`
	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *repository) GetByEmailOrPhone(ctx context.Context, email, phone string) (*User, error) {
	query := `
		SELECT id, name, email, phone, specialty_id, password_hash,
		       role, status, email_verified, wallet_balance, created_at, updated_at
		FROM users WHERE email = $1 OR phone = $2
	`
	var user User
	err := r.db.GetContext(ctx, &user, query, email, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, phone = $3, specialty_id = $4, updated_at = now()
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.SpecialtyID,
		user.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("user repository update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *repository) List(ctx context.Context) ([]*User, error) {
	query := `
		SELECT id, name, email, phone, specialty_id, password_hash,
		       role, status, email_verified, wallet_balance, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`
	users := []*User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("user repository update password: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdateEmailVerified(ctx context.Context, id int64, verified bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET email_verified = $1, updated_at = now() WHERE id = $2`,
		verified, id)
	if err != nil {
		return fmt.Errorf("user repository update email verified: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdateRole(ctx context.Context, id int64, role Role) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`,
		role, id)
	if err != nil {
		return fmt.Errorf("user repository update role: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("user repository update status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) ListSessions(ctx context.Context, userID int64) ([]*Session, error) {
	sessions := []*Session{}
	err := r.db.SelectContext(ctx, &sessions,
		`SELECT user_id, device_token, created_at FROM user_sessions WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) AddSession(ctx context.Context, userID int64, deviceToken string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (user_id, device_token)
		VALUES ($1, $2)
		ON CONFLICT (user_id, device_token) DO NOTHING
	`, userID, deviceToken)
	return err
}

func (r *repository) DeleteSessions(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID)
	return err
}
