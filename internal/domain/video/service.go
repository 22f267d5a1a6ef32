package video

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/domain/enrollment"
	"github.com/medplus/academy-api/internal/pkg/storage"
	"github.com/medplus/academy-api/internal/pkg/transcode"
)

const playlistURLTTL = time.Hour

// ChapterChecker validates the target chapter exists before upload
type ChapterChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles video business logic
type Service struct {
	repo      *Repository
	chapters  ChapterChecker
	purchaser enrollment.Purchaser
	pipeline  *transcode.Pipeline
	store     storage.Storage
}

// NewService creates video service
func NewService(repo *Repository, chapters ChapterChecker, purchaser enrollment.Purchaser, pipeline *transcode.Pipeline, store storage.Storage) *Service {
	return &Service{
		repo:      repo,
		chapters:  chapters,
		purchaser: purchaser,
		pipeline:  pipeline,
		store:     store,
	}
}

// Upload transcodes the uploaded file and registers the video
func (s *Service) Upload(ctx context.Context, chapterID int64, title, inputPath string) (*Video, error) {
	ok, err := s.chapters.Exists(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrChapterNotFound
	}

	result, err := s.pipeline.Run(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("transcode failed: %w", err)
	}

	v := &Video{
		ChapterID:   chapterID,
		Title:       title,
		PlaylistKey: result.PlaylistKey,
		KeyHex:      result.KeyHex,
		Duration:    result.Duration,
		Identifier:  result.Identifier,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		// Orphaned segments are cleaned up so a failed insert leaves no
		// unreachable objects behind.
		_ = s.store.DeletePrefix(ctx, "videos/"+result.Identifier+"/")
		return nil, err
	}

	log.Info().
		Int64("video_id", v.ID).
		Str("identifier", v.Identifier).
		Int("duration", v.Duration).
		Int("segments", result.SegmentCount).
		Msg("video transcoded and stored")
	return v, nil
}

// guard rejects users who have not purchased the course. Admins pass.
func (s *Service) guard(ctx context.Context, userID, videoID int64, isAdmin bool) error {
	if isAdmin {
		return nil
	}

	courseID, err := s.repo.CourseID(ctx, videoID)
	if err != nil {
		return err
	}

	enrolled, err := s.purchaser.IsEnrolled(ctx, userID, enrollment.Item{Kind: enrollment.KindCourse, ID: courseID})
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}
	return nil
}

// Playback returns the player view with a presigned playlist URL
func (s *Service) Playback(ctx context.Context, userID, videoID int64, isAdmin bool) (*PlaybackResponse, error) {
	if err := s.guard(ctx, userID, videoID, isAdmin); err != nil {
		return nil, err
	}

	v, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	playlistURL, err := s.store.PresignGet(ctx, v.PlaylistKey, playlistURLTTL)
	if err != nil {
		return nil, err
	}

	prev, next, err := s.repo.Neighbors(ctx, videoID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.CommentsCount(ctx, videoID)
	if err != nil {
		return nil, err
	}

	finished, err := s.repo.IsFinished(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	return &PlaybackResponse{
		ID:            v.ID,
		Title:         v.Title,
		Duration:      formatDuration(v.Duration),
		PlaylistURL:   playlistURL,
		PrevVideoID:   prev,
		NextVideoID:   next,
		CommentsCount: comments,
		Completed:     finished,
	}, nil
}

// Key returns the raw AES-128 key bytes for the HLS player
func (s *Service) Key(ctx context.Context, userID int64, identifier string, isAdmin bool) ([]byte, error) {
	v, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if err := s.guard(ctx, userID, v.ID, isAdmin); err != nil {
		return nil, err
	}

	key, err := hex.DecodeString(v.KeyHex)
	if err != nil {
		return nil, fmt.Errorf("stored key for video %d is corrupt: %w", v.ID, err)
	}
	return key, nil
}

// SegmentURL presigns one HLS segment. Segments are AES encrypted, the
// key endpoint is the guarded secret.
func (s *Service) SegmentURL(ctx context.Context, identifier, name string) (string, error) {
	if _, err := s.repo.GetByIdentifier(ctx, identifier); err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, "videos/"+identifier+"/"+name, playlistURLTTL)
}

// MarkFinished records completion for an enrolled user
func (s *Service) MarkFinished(ctx context.Context, userID, videoID int64, isAdmin bool) error {
	if err := s.guard(ctx, userID, videoID, isAdmin); err != nil {
		return err
	}
	return s.repo.MarkFinished(ctx, userID, videoID)
}

// ListByChapter lists chapter videos for admin screens
func (s *Service) ListByChapter(ctx context.Context, chapterID int64) ([]Video, error) {
	ok, err := s.chapters.Exists(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrChapterNotFound
	}
	return s.repo.ListByChapter(ctx, chapterID)
}

// Update moves or retitles a video
func (s *Service) Update(ctx context.Context, id, chapterID int64, title string) (*Video, error) {
	ok, err := s.chapters.Exists(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrChapterNotFound
	}

	if err := s.repo.Update(ctx, id, chapterID, title); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes the video row and its stored rendition
func (s *Service) Delete(ctx context.Context, id int64) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.DeletePrefix(ctx, "videos/"+v.Identifier+"/"); err != nil {
		log.Warn().Err(err).Str("identifier", v.Identifier).Msg("failed to delete video objects")
	}
	return nil
}

func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
