package video

import "errors"

var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrNotEnrolled      = errors.New("course not purchased")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
