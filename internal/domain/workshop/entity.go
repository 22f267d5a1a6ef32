package workshop

import (
	"database/sql"
	"time"
)

// Workshop is a paid live event
type Workshop struct {
	ID          int64          `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Price       int64          `db:"price" json:"price"`
	EventDate   time.Time      `db:"event_date" json:"event_date"`
	EventTime   sql.NullString `db:"event_time" json:"event_time,omitempty"`
	Location    string         `db:"location" json:"location"`
	Poster      string         `db:"poster" json:"poster"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`

	RegisteredCount int `db:"registered_count" json:"registered_count"`

	// Set for authenticated listings
	IsRegistered *bool `json:"is_registered,omitempty"`
}

// Registration is one attendee row
type Registration struct {
	UserID       int64     `db:"user_id" json:"user_id"`
	WorkshopID   int64     `db:"workshop_id" json:"workshop_id"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`

	UserName  sql.NullString `db:"user_name" json:"user_name,omitempty"`
	UserEmail sql.NullString `db:"user_email" json:"user_email,omitempty"`
}
