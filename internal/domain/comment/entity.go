package comment

import (
	"database/sql"
	"time"
)

// Comment is feedback on a video. Invisible until an admin approves it.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	VideoID   int64     `db:"video_id" json:"video_id"`
	Content   string    `db:"content" json:"content"`
	Approved  bool      `db:"approved" json:"approved"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	UserName   sql.NullString `db:"user_name" json:"user_name,omitempty"`
	VideoTitle sql.NullString `db:"video_title" json:"video_title,omitempty"`

	Replies []Reply `json:"replies,omitempty"`
}

// Reply is a response under an approved comment
type Reply struct {
	ID        int64     `db:"id" json:"id"`
	CommentID int64     `db:"comment_id" json:"comment_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	UserName sql.NullString `db:"user_name" json:"user_name,omitempty"`
}
