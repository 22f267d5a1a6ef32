package comment

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrNotOwner        = errors.New("comment belongs to another user")
	ErrNotApproved     = errors.New("comment is awaiting moderation")
)
