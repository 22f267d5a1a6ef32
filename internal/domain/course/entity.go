package course

import (
	"database/sql"
	"time"
)

// Course is a purchasable set of chapters and videos
type Course struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Price        int64     `db:"price" json:"price"`
	SpecialtyID  int64     `db:"specialty_id" json:"specialty_id"`
	InstructorID int64     `db:"instructor_id" json:"instructor_id"`
	Poster       string    `db:"poster" json:"poster"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	SpecialtyName  sql.NullString `db:"specialty_name" json:"specialty_name,omitempty"`
	InstructorName sql.NullString `db:"instructor_name" json:"instructor_name,omitempty"`
}

// ListItem is a course row enriched with listing aggregates
type ListItem struct {
	Course
	VideoCount    int `db:"video_count" json:"video_count"`
	StudentCount  int `db:"student_count" json:"student_count"`
	TotalDuration int `db:"total_duration" json:"-"`

	Duration string `json:"duration"`
}

// EnrolledCourse is a course the user bought, with progress
type EnrolledCourse struct {
	Course
	EnrolledAt     time.Time    `db:"enrolled_at" json:"enrolled_at"`
	VideoCount     int          `db:"video_count" json:"video_count"`
	CompletedCount int          `db:"completed_count" json:"completed_count"`
	LastWatchedAt  sql.NullTime `db:"last_watched_at" json:"last_watched_at,omitempty"`

	Progress int `json:"progress"`
}
