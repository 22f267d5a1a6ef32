package comment

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service handles comment business logic
type Service struct {
	repo *Repository
}

// NewService creates comment service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts an unapproved comment
func (s *Service) Create(ctx context.Context, userID, videoID int64, content string) (*Comment, error) {
	c := &Comment{UserID: userID, VideoID: videoID, Content: content}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListByVideo returns approved comments for a video
func (s *Service) ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]Comment, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	comments, err := s.repo.ListApprovedByVideo(ctx, videoID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountApprovedByVideo(ctx, videoID)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Update edits the caller's own comment
func (s *Service) Update(ctx context.Context, userID, commentID int64, content string) (*Comment, error) {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrNotOwner
	}

	if err := s.repo.Update(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, commentID)
}

// Delete removes a comment. Admins may delete any comment.
func (s *Service) Delete(ctx context.Context, userID, commentID int64, isAdmin bool) error {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !isAdmin && c.UserID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, commentID)
}

// Reply adds a reply under an approved comment
func (s *Service) Reply(ctx context.Context, userID, commentID int64, content string) (*Reply, error) {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !c.Approved {
		return nil, ErrNotApproved
	}

	reply := &Reply{CommentID: commentID, UserID: userID, Content: content}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Pending returns the moderation queue
func (s *Service) Pending(ctx context.Context, page, limit int) ([]Comment, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	comments, err := s.repo.ListPending(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountPending(ctx)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Approve publishes a pending comment
func (s *Service) Approve(ctx context.Context, commentID int64) error {
	if err := s.repo.Approve(ctx, commentID); err != nil {
		return err
	}
	log.Info().Int64("comment_id", commentID).Msg("comment approved")
	return nil
}
