package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, v *Video) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO videos (chapter_id, title, url, key_hex, duration, identifier)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, v.ChapterID, v.Title, v.PlaylistKey, v.KeyHex, v.Duration, v.Identifier).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("video repository create: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Video, error) {
	var v Video
	err := r.db.GetContext(ctx, &v, `
		SELECT id, chapter_id, title, url, key_hex, duration, identifier, created_at
		FROM videos WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) GetByIdentifier(ctx context.Context, identifier string) (*Video, error) {
	var v Video
	err := r.db.GetContext(ctx, &v, `
		SELECT id, chapter_id, title, url, key_hex, duration, identifier, created_at
		FROM videos WHERE identifier = $1
	`, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) ListByChapter(ctx context.Context, chapterID int64) ([]Video, error) {
	videos := []Video{}
	err := r.db.SelectContext(ctx, &videos, `
		SELECT id, chapter_id, title, url, key_hex, duration, identifier, created_at
		FROM videos WHERE chapter_id = $1
		ORDER BY id
	`, chapterID)
	return videos, err
}

func (r *Repository) Update(ctx context.Context, id int64, chapterID int64, title string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE videos SET chapter_id = $1, title = $2 WHERE id = $3`,
		chapterID, title, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrVideoNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// CourseID resolves the course a video belongs to, for the purchase guard
func (r *Repository) CourseID(ctx context.Context, videoID int64) (int64, error) {
	var courseID int64
	err := r.db.GetContext(ctx, &courseID, `
		SELECT ch.course_id FROM videos v
		JOIN chapters ch ON ch.id = v.chapter_id
		WHERE v.id = $1
	`, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVideoNotFound
	}
	return courseID, err
}

// Neighbors returns the previous and next video IDs within the course,
// ordered by chapter position then video id.
func (r *Repository) Neighbors(ctx context.Context, videoID int64) (prev, next *int64, err error) {
	var row struct {
		Prev sql.NullInt64 `db:"prev_id"`
		Next sql.NullInt64 `db:"next_id"`
	}
	err = r.db.GetContext(ctx, &row, `
		WITH ordered AS (
			SELECT v.id,
			       lag(v.id) OVER w AS prev_id,
			       lead(v.id) OVER w AS next_id
			FROM videos v
			JOIN chapters ch ON ch.id = v.chapter_id
			WHERE ch.course_id = (
				SELECT ch2.course_id FROM videos v2
				JOIN chapters ch2 ON ch2.id = v2.chapter_id
				WHERE v2.id = $1
			)
			WINDOW w AS (ORDER BY ch.position, ch.id, v.id)
		)
		SELECT prev_id, next_id FROM ordered WHERE id = $1
	`, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if row.Prev.Valid {
		prev = &row.Prev.Int64
	}
	if row.Next.Valid {
		next = &row.Next.Int64
	}
	return prev, next, nil
}

func (r *Repository) CommentsCount(ctx context.Context, videoID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT count(*) FROM comments WHERE video_id = $1 AND approved`, videoID)
	return n, err
}

// MarkFinished records the video as completed for the user
func (r *Repository) MarkFinished(ctx context.Context, userID, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completed_videos (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO NOTHING
	`, userID, videoID)
	return err
}

func (r *Repository) IsFinished(ctx context.Context, userID, videoID int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM completed_videos WHERE user_id = $1 AND video_id = $2`,
		userID, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
