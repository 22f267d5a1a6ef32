package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Totals is the headline counter block of the dashboard
type Totals struct {
	ActiveUsers     int `db:"active_users" json:"active_users"`
	Courses         int `db:"courses" json:"courses"`
	Videos          int `db:"videos" json:"videos"`
	Comments        int `db:"comments" json:"comments"`
	CompletedVideos int `db:"completed_videos" json:"completed_videos"`
	Workshops       int `db:"workshops" json:"workshops"`
	Registrations   int `db:"registrations" json:"registrations"`
}

func (r *Repository) Totals(ctx context.Context) (*Totals, error) {
	var t Totals
	err := r.db.GetContext(ctx, &t, `
		SELECT
			(SELECT count(*) FROM users WHERE status = 'active') AS active_users,
			(SELECT count(*) FROM courses) AS courses,
			(SELECT count(*) FROM videos) AS videos,
			(SELECT count(*) FROM comments WHERE approved) AS comments,
			(SELECT count(*) FROM completed_videos) AS completed_videos,
			(SELECT count(*) FROM workshops) AS workshops,
			(SELECT count(*) FROM workshop_registrations) AS registrations
	`)
	if err != nil {
		return nil, fmt.Errorf("admin repository totals: %w", err)
	}
	return &t, nil
}

// ActiveSince counts distinct users with any learning activity after the
// cutoff. Video completions and comments are the activity signals we record.
func (r *Repository) ActiveSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT count(*) FROM (
			SELECT user_id FROM completed_videos WHERE completed_at >= $1
			UNION
			SELECT user_id FROM comments WHERE created_at >= $1
		) active
	`, since)
	if err != nil {
		return 0, fmt.Errorf("admin repository active since: %w", err)
	}
	return n, nil
}

func (r *Repository) CommentsSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT count(*) FROM comments WHERE created_at >= $1`, since)
	if err != nil {
		return 0, fmt.Errorf("admin repository comments since: %w", err)
	}
	return n, nil
}

// PopularCourse is one row of the by-students ranking
type PopularCourse struct {
	ID       int64  `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	Students int    `db:"students" json:"students"`
}

func (r *Repository) PopularCourses(ctx context.Context, limit int) ([]PopularCourse, error) {
	courses := []PopularCourse{}
	err := r.db.SelectContext(ctx, &courses, `
		SELECT c.id, c.title, count(uc.user_id) AS students
		FROM courses c
		LEFT JOIN user_courses uc ON uc.course_id = c.id
		GROUP BY c.id, c.title
		ORDER BY students DESC, c.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("admin repository popular courses: %w", err)
	}
	return courses, nil
}

// PopularVideo is one row of the by-completions ranking
type PopularVideo struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	CourseTitle string `db:"course_title" json:"course_title"`
	Completions int    `db:"completions" json:"completions"`
}

func (r *Repository) PopularVideos(ctx context.Context, limit int) ([]PopularVideo, error) {
	videos := []PopularVideo{}
	err := r.db.SelectContext(ctx, &videos, `
		SELECT v.id, v.title, c.title AS course_title, count(cv.user_id) AS completions
		FROM videos v
		JOIN chapters ch ON ch.id = v.chapter_id
		JOIN courses c ON c.id = ch.course_id
		LEFT JOIN completed_videos cv ON cv.video_id = v.id
		GROUP BY v.id, v.title, c.title
		ORDER BY completions DESC, v.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("admin repository popular videos: %w", err)
	}
	return videos, nil
}

// CourseCompletion is the average progress of a course across its students
type CourseCompletion struct {
	ID       int64   `db:"id" json:"id"`
	Title    string  `db:"title" json:"title"`
	Students int     `db:"students" json:"students"`
	Rate     float64 `db:"rate" json:"rate"`
}

func (r *Repository) CompletionRates(ctx context.Context) ([]CourseCompletion, error) {
	rows := []CourseCompletion{}
	// rate = completions / (students * videos), 0 when either side is empty
	err := r.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.title,
			(SELECT count(*) FROM user_courses uc WHERE uc.course_id = c.id) AS students,
			coalesce(
				(SELECT count(*)::float
				 FROM completed_videos cv
				 JOIN videos v ON v.id = cv.video_id
				 JOIN chapters ch ON ch.id = v.chapter_id
				 WHERE ch.course_id = c.id)
				/ nullif(
					(SELECT count(*) FROM user_courses uc WHERE uc.course_id = c.id)
					* (SELECT count(*) FROM videos v
					   JOIN chapters ch ON ch.id = v.chapter_id
					   WHERE ch.course_id = c.id), 0),
				0) AS rate
		FROM courses c
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("admin repository completion rates: %w", err)
	}
	return rows, nil
}
