package workshop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/domain/enrollment"
	"github.com/medplus/academy-api/internal/pkg/imaging"
	"github.com/medplus/academy-api/internal/pkg/storage"
)

var ErrInvalidPoster = errors.New("invalid poster image")

// Service handles workshop business logic
type Service struct {
	repo      *Repository
	purchaser enrollment.Purchaser
	posters   *imaging.Processor
	store     storage.Storage
}

// NewService creates workshop service
func NewService(repo *Repository, purchaser enrollment.Purchaser, posters *imaging.Processor, store storage.Storage) *Service {
	return &Service{repo: repo, purchaser: purchaser, posters: posters, store: store}
}

func (s *Service) Create(ctx context.Context, ws *Workshop) (*Workshop, error) {
	if err := s.repo.Create(ctx, ws); err != nil {
		return nil, err
	}
	log.Info().Int64("workshop_id", ws.ID).Str("title", ws.Title).Msg("workshop created")
	return ws, nil
}

func (s *Service) Get(ctx context.Context, id, userID int64) (*Workshop, error) {
	ws, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if userID != 0 {
		registered, err := s.purchaser.IsEnrolled(ctx, userID, enrollment.Item{Kind: enrollment.KindWorkshop, ID: id})
		if err != nil {
			return nil, err
		}
		ws.IsRegistered = &registered
	}
	return ws, nil
}

func (s *Service) List(ctx context.Context, page, limit int) ([]Workshop, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	workshops, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return workshops, total, nil
}

// Latest returns the newest workshops for the landing page
func (s *Service) Latest(ctx context.Context) ([]Workshop, error) {
	return s.repo.Latest(ctx, 3)
}

func (s *Service) Update(ctx context.Context, ws *Workshop) (*Workshop, error) {
	if err := s.repo.Update(ctx, ws); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, ws.ID)
}

// UploadPoster processes and stores the poster, and saves its URL
func (s *Service) UploadPoster(ctx context.Context, id int64, file io.Reader) (string, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", err
	}

	processed, err := s.posters.Process(file)
	if err != nil {
		return "", ErrInvalidPoster
	}

	key := fmt.Sprintf("posters/workshops/%d", id)
	if err := s.store.Put(ctx, key, bytes.NewReader(processed.Full), processed.ContentType); err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, key+"_thumb", bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return "", err
	}

	url := s.store.GetURL(key)
	if err := s.repo.UpdatePoster(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ws, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if ws.Poster != "" {
		if err := s.store.Delete(ctx, fmt.Sprintf("posters/workshops/%d", id)); err != nil {
			log.Warn().Err(err).Int64("workshop_id", id).Msg("failed to delete workshop poster")
		}
	}
	return nil
}

// Register purchases a seat through the shared enrollment transaction
func (s *Service) Register(ctx context.Context, userID, workshopID int64) error {
	return s.purchaser.Enroll(ctx, userID, enrollment.Item{Kind: enrollment.KindWorkshop, ID: workshopID})
}

// Registrations lists attendees (admin view)
func (s *Service) Registrations(ctx context.Context, workshopID int64) ([]Registration, error) {
	return s.repo.Registrations(ctx, workshopID)
}

// MyWorkshops returns the caller's registrations
func (s *Service) MyWorkshops(ctx context.Context, userID int64) ([]Workshop, error) {
	return s.repo.ListRegistered(ctx, userID)
}
