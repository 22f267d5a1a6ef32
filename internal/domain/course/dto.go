package course

import "fmt"

// CreateCourseRequest for POST /courses
type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=2,max=200"`
	Description  string `json:"description" validate:"omitempty,max=5000"`
	Price        int64  `json:"price" validate:"gte=0"`
	SpecialtyID  int64  `json:"specialty_id" validate:"required,gt=0"`
	InstructorID int64  `json:"instructor_id" validate:"required,gt=0"`
}

// UpdateCourseRequest for PUT /courses/{id}
type UpdateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=2,max=200"`
	Description  string `json:"description" validate:"omitempty,max=5000"`
	Price        int64  `json:"price" validate:"gte=0"`
	SpecialtyID  int64  `json:"specialty_id" validate:"required,gt=0"`
	InstructorID int64  `json:"instructor_id" validate:"required,gt=0"`
}

// VideoOverview is one video row in the course overview
type VideoOverview struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`

	// Content view only
	Completed *bool `json:"completed,omitempty"`
}

// ChapterOverview groups videos under a chapter
type ChapterOverview struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Videos []VideoOverview `json:"videos"`

	// Content view only
	Completed *bool `json:"completed,omitempty"`
}

// Section groups chapters by exam section
type Section struct {
	Type     string            `json:"type"`
	Chapters []ChapterOverview `json:"chapters"`
}

// OverviewResponse for GET /courses/{id}/overview
type OverviewResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	Poster         string    `json:"poster"`
	SpecialtyName  string    `json:"specialty_name,omitempty"`
	InstructorName string    `json:"instructor_name,omitempty"`
	Sections       []Section `json:"sections"`
	VideoCount     int       `json:"video_count"`
	TotalDuration  string    `json:"total_duration"`
	StudentCount   int       `json:"student_count"`
	IsEnrolled     bool      `json:"is_enrolled"`
}

// ContentResponse for GET /courses/{id}/content (enrolled users)
type ContentResponse struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	Progress int       `json:"progress"`
}

// formatDuration renders seconds as MM:SS, or HH:MM:SS past an hour
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
