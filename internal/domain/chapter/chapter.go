package chapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrCourseNotFound  = errors.New("course not found")
)

// Chapter groups videos inside a course under an exam section
type Chapter struct {
	ID       int64  `db:"id" json:"id"`
	CourseID int64  `db:"course_id" json:"course_id"`
	Title    string `db:"title" json:"title"`
	Type     string `db:"type" json:"type"`
	Position int    `db:"position" json:"position"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) courseExists(ctx context.Context, courseID int64) error {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM courses WHERE id = $1`, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCourseNotFound
	}
	return err
}

func (r *Repository) Create(ctx context.Context, ch *Chapter) error {
	if err := r.courseExists(ctx, ch.CourseID); err != nil {
		return err
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO chapters (course_id, title, type, position)
		VALUES ($1, $2, $3,
			coalesce(nullif($4, 0),
				(SELECT coalesce(max(position), 0) + 1 FROM chapters WHERE course_id = $1)))
		RETURNING id, position
	`, ch.CourseID, ch.Title, ch.Type, ch.Position).Scan(&ch.ID, &ch.Position)
	if err != nil {
		return fmt.Errorf("chapter repository create: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Chapter, error) {
	var ch Chapter
	err := r.db.GetContext(ctx, &ch,
		`SELECT id, course_id, title, type, position FROM chapters WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChapterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM chapters WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) ListByCourse(ctx context.Context, courseID int64) ([]Chapter, error) {
	if err := r.courseExists(ctx, courseID); err != nil {
		return nil, err
	}

	chapters := []Chapter{}
	err := r.db.SelectContext(ctx, &chapters, `
		SELECT id, course_id, title, type, position
		FROM chapters
		WHERE course_id = $1
		ORDER BY position, id
	`, courseID)
	return chapters, err
}

func (r *Repository) Update(ctx context.Context, ch *Chapter) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE chapters SET title = $1, type = $2, position = $3 WHERE id = $4
	`, ch.Title, ch.Type, ch.Position, ch.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrChapterNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrChapterNotFound
	}
	return nil
}
