package instructor

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("instructor not found")

// Instructor teaches courses on the platform
type Instructor struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Title     string    `db:"title" json:"title"`
	Bio       string    `db:"bio" json:"bio"`
	Avatar    string    `db:"avatar" json:"avatar"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, ins *Instructor) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO instructors (name, title, bio, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, ins.Name, ins.Title, ins.Bio, ins.Avatar).Scan(&ins.ID, &ins.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Instructor, error) {
	var ins Instructor
	err := r.db.GetContext(ctx, &ins,
		`SELECT id, name, title, bio, avatar, created_at FROM instructors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM instructors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) List(ctx context.Context) ([]Instructor, error) {
	instructors := []Instructor{}
	err := r.db.SelectContext(ctx, &instructors,
		`SELECT id, name, title, bio, avatar, created_at FROM instructors ORDER BY name`)
	return instructors, err
}

func (r *Repository) Update(ctx context.Context, ins *Instructor) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE instructors SET name = $1, title = $2, bio = $3, avatar = $4
		WHERE id = $5
	`, ins.Name, ins.Title, ins.Bio, ins.Avatar, ins.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM instructors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
