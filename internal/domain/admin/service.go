package admin

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/domain/user"
	"github.com/medplus/academy-api/internal/pkg/storage"
)

// Dashboard aggregates the admin home screen
type Dashboard struct {
	Totals           *Totals            `json:"totals"`
	DailyActiveUsers int                `json:"daily_active_users"`
	WeeklyActive     int                `json:"weekly_active_users"`
	DailyNewComments int                `json:"daily_new_comments"`
	StorageUsedBytes int64              `json:"storage_used_bytes"`
	PopularCourses   []PopularCourse    `json:"popular_courses"`
	PopularVideos    []PopularVideo     `json:"popular_videos"`
	CompletionRates  []CourseCompletion `json:"completion_rates"`
}

// Service handles admin business logic
type Service struct {
	repo  *Repository
	users user.Repository
	store storage.Storage
}

// NewService creates admin service
func NewService(repo *Repository, users user.Repository, store storage.Storage) *Service {
	return &Service{repo: repo, users: users, store: store}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	daily, err := s.repo.ActiveSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	weekly, err := s.repo.ActiveSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.CommentsSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	courses, err := s.repo.PopularCourses(ctx, 5)
	if err != nil {
		return nil, err
	}
	videos, err := s.repo.PopularVideos(ctx, 5)
	if err != nil {
		return nil, err
	}
	rates, err := s.repo.CompletionRates(ctx)
	if err != nil {
		return nil, err
	}

	// A bucket scan failure should not blank the whole dashboard
	used, err := s.store.TotalSize(ctx, "")
	if err != nil {
		log.Warn().Err(err).Msg("failed to measure storage usage")
		used = 0
	}

	return &Dashboard{
		Totals:           totals,
		DailyActiveUsers: daily,
		WeeklyActive:     weekly,
		DailyNewComments: comments,
		StorageUsedBytes: used,
		PopularCourses:   courses,
		PopularVideos:    videos,
		CompletionRates:  rates,
	}, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.users.List(ctx)
}

// SetRole changes a user's role. The super admin gate sits in the routes.
func (s *Service) SetRole(ctx context.Context, id int64, role user.Role) error {
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	log.Info().Int64("user_id", id).Str("role", string(role)).Msg("user role changed")
	return nil
}

func (s *Service) Ban(ctx context.Context, id int64) error {
	return s.users.UpdateStatus(ctx, id, user.StatusBanned)
}

func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.users.UpdateStatus(ctx, id, user.StatusActive)
}
