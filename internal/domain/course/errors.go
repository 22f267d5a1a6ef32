package course

import "errors"

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrSpecialtyNotFound  = errors.New("specialty not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrNotEnrolled        = errors.New("user is not enrolled in this course")
	ErrInvalidPoster      = errors.New("invalid poster image")
)
