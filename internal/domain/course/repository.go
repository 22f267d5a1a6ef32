package course

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

const courseColumns = `
	c.id, c.title, c.description, c.price, c.specialty_id, c.instructor_id,
	c.poster, c.created_at, c.updated_at,
	s.name AS specialty_name, i.name AS instructor_name
`

const courseJoins = `
	FROM courses c
	LEFT JOIN specialties s ON c.specialty_id = s.id
	LEFT JOIN instructors i ON c.instructor_id = i.id
`

func (r *Repository) Create(ctx context.Context, c *Course) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO courses (title, description, price, specialty_id, instructor_id, poster)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, c.Title, c.Description, c.Price, c.SpecialtyID, c.InstructorID, c.Poster).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("course repository create: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Course, error) {
	var c Course
	err := r.db.GetContext(ctx, &c,
		`SELECT `+courseColumns+courseJoins+` WHERE c.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Update(ctx context.Context, c *Course) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE courses
		SET title = $1, description = $2, price = $3, specialty_id = $4,
		    instructor_id = $5, updated_at = now()
		WHERE id = $6
	`, c.Title, c.Description, c.Price, c.SpecialtyID, c.InstructorID, c.ID)
	if err != nil {
		return fmt.Errorf("course repository update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *Repository) UpdatePoster(ctx context.Context, id int64, poster string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses SET poster = $1, updated_at = now() WHERE id = $2`, poster, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCourseNotFound
	}
	return nil
}

const listAggregates = `
	(SELECT count(*) FROM chapters ch JOIN videos v ON v.chapter_id = ch.id
	 WHERE ch.course_id = c.id) AS video_count,
	(SELECT count(*) FROM user_courses uc WHERE uc.course_id = c.id) AS student_count,
	(SELECT coalesce(sum(v.duration), 0) FROM chapters ch JOIN videos v ON v.chapter_id = ch.id
	 WHERE ch.course_id = c.id) AS total_duration
`

func (r *Repository) List(ctx context.Context, limit, offset int) ([]ListItem, error) {
	items := []ListItem{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+courseColumns+`, `+listAggregates+courseJoins+`
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return items, err
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM courses`)
	return total, err
}

func (r *Repository) Latest(ctx context.Context, n int) ([]ListItem, error) {
	items := []ListItem{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+courseColumns+`, `+listAggregates+courseJoins+`
		ORDER BY c.created_at DESC
		LIMIT $1`, n)
	return items, err
}

func (r *Repository) ListByInstructor(ctx context.Context, instructorID int64, limit, offset int) ([]ListItem, error) {
	items := []ListItem{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+courseColumns+`, `+listAggregates+courseJoins+`
		WHERE c.instructor_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`, instructorID, limit, offset)
	return items, err
}

func (r *Repository) CountByInstructor(ctx context.Context, instructorID int64) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT count(*) FROM courses WHERE instructor_id = $1`, instructorID)
	return total, err
}

// chapterRow is a flattened chapter/video join row for the overview
type chapterRow struct {
	ChapterID    int64          `db:"chapter_id"`
	ChapterTitle string         `db:"chapter_title"`
	SectionType  string         `db:"section_type"`
	Position     int            `db:"position"`
	VideoID      sql.NullInt64  `db:"video_id"`
	VideoTitle   sql.NullString `db:"video_title"`
	Duration     sql.NullInt64  `db:"duration"`
}

func (r *Repository) chapterRows(ctx context.Context, courseID int64) ([]chapterRow, error) {
	rows := []chapterRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT ch.id AS chapter_id, ch.title AS chapter_title, ch.type AS section_type,
		       ch.position, v.id AS video_id, v.title AS video_title, v.duration
		FROM chapters ch
		LEFT JOIN videos v ON v.chapter_id = ch.id
		WHERE ch.course_id = $1
		ORDER BY ch.position, ch.id, v.id
	`, courseID)
	return rows, err
}

func (r *Repository) StudentCount(ctx context.Context, courseID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT count(*) FROM user_courses WHERE course_id = $1`, courseID)
	return n, err
}

// CompletedVideoIDs returns the user's finished video IDs within a course
func (r *Repository) CompletedVideoIDs(ctx context.Context, userID, courseID int64) (map[int64]bool, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT cv.video_id
		FROM completed_videos cv
		JOIN videos v ON v.id = cv.video_id
		JOIN chapters ch ON ch.id = v.chapter_id
		WHERE cv.user_id = $1 AND ch.course_id = $2
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	completed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}

func (r *Repository) ListEnrolled(ctx context.Context, userID int64) ([]EnrolledCourse, error) {
	courses := []EnrolledCourse{}
	err := r.db.SelectContext(ctx, &courses, `
		SELECT `+courseColumns+`, uc.enrolled_at,
		       (SELECT count(*) FROM chapters ch JOIN videos v ON v.chapter_id = ch.id
		        WHERE ch.course_id = c.id) AS video_count,
		       (SELECT count(*) FROM completed_videos cv
		        JOIN videos v ON v.id = cv.video_id
		        JOIN chapters ch ON ch.id = v.chapter_id
		        WHERE cv.user_id = uc.user_id AND ch.course_id = c.id) AS completed_count,
		       (SELECT max(cv.completed_at) FROM completed_videos cv
		        JOIN videos v ON v.id = cv.video_id
		        JOIN chapters ch ON ch.id = v.chapter_id
		        WHERE cv.user_id = uc.user_id AND ch.course_id = c.id) AS last_watched_at
		`+courseJoins+`
		JOIN user_courses uc ON uc.course_id = c.id
		WHERE uc.user_id = $1
		ORDER BY uc.enrolled_at DESC
	`, userID)
	return courses, err
}
