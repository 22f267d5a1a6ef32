package course

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/domain/enrollment"
	"github.com/medplus/academy-api/internal/pkg/imaging"
	"github.com/medplus/academy-api/internal/pkg/storage"
)

// ReferenceChecker validates rows in another table exist
type ReferenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles course business logic
type Service struct {
	repo        *Repository
	specialties ReferenceChecker
	instructors ReferenceChecker
	purchaser   enrollment.Purchaser
	posters     *imaging.Processor
	store       storage.Storage
}

// NewService creates course service
func NewService(repo *Repository, specialties, instructors ReferenceChecker, purchaser enrollment.Purchaser, posters *imaging.Processor, store storage.Storage) *Service {
	return &Service{
		repo:        repo,
		specialties: specialties,
		instructors: instructors,
		purchaser:   purchaser,
		posters:     posters,
		store:       store,
	}
}

func (s *Service) checkReferences(ctx context.Context, specialtyID, instructorID int64) error {
	ok, err := s.specialties.Exists(ctx, specialtyID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSpecialtyNotFound
	}

	ok, err = s.instructors.Exists(ctx, instructorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInstructorNotFound
	}
	return nil
}

// Create validates references and inserts the course
func (s *Service) Create(ctx context.Context, req *CreateCourseRequest) (*Course, error) {
	if err := s.checkReferences(ctx, req.SpecialtyID, req.InstructorID); err != nil {
		return nil, err
	}

	c := &Course{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		SpecialtyID:  req.SpecialtyID,
		InstructorID: req.InstructorID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().Int64("course_id", c.ID).Str("title", c.Title).Msg("course created")
	return s.repo.GetByID(ctx, c.ID)
}

// Update validates references and updates the course
func (s *Service) Update(ctx context.Context, id int64, req *UpdateCourseRequest) (*Course, error) {
	if err := s.checkReferences(ctx, req.SpecialtyID, req.InstructorID); err != nil {
		return nil, err
	}

	c := &Course{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		SpecialtyID:  req.SpecialtyID,
		InstructorID: req.InstructorID,
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes the course and its stored poster
func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if c.Poster != "" {
		if err := s.store.Delete(ctx, posterKey("courses", id)); err != nil {
			log.Warn().Err(err).Int64("course_id", id).Msg("failed to delete course poster")
		}
	}
	return nil
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

	key := posterKey("courses", id)
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

// List returns a page of courses with aggregates
func (s *Service) List(ctx context.Context, page, limit int) ([]ListItem, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	formatDurations(items)

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Latest returns the newest courses for the landing page
func (s *Service) Latest(ctx context.Context) ([]ListItem, error) {
	items, err := s.repo.Latest(ctx, 6)
	if err != nil {
		return nil, err
	}
	formatDurations(items)
	return items, nil
}

// ListByInstructor returns the instructor's courses with aggregates
func (s *Service) ListByInstructor(ctx context.Context, instructorID int64, page, limit int) ([]ListItem, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, err := s.repo.ListByInstructor(ctx, instructorID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	formatDurations(items)

	total, err := s.repo.CountByInstructor(ctx, instructorID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Overview builds the public course page. userID 0 means guest.
func (s *Service) Overview(ctx context.Context, courseID, userID int64) (*OverviewResponse, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.chapterRows(ctx, courseID)
	if err != nil {
		return nil, err
	}

	sections, videoCount, totalSeconds := buildSections(rows, nil)

	students, err := s.repo.StudentCount(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if userID != 0 {
		enrolled, err = s.purchaser.IsEnrolled(ctx, userID, enrollment.Item{Kind: enrollment.KindCourse, ID: courseID})
		if err != nil {
			return nil, err
		}
	}

	resp := &OverviewResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Price:         c.Price,
		Poster:        c.Poster,
		Sections:      sections,
		VideoCount:    videoCount,
		TotalDuration: formatDuration(totalSeconds),
		StudentCount:  students,
		IsEnrolled:    enrolled,
	}
	if c.SpecialtyName.Valid {
		resp.SpecialtyName = c.SpecialtyName.String
	}
	if c.InstructorName.Valid {
		resp.InstructorName = c.InstructorName.String
	}
	return resp, nil
}

// Content builds the course player view for an enrolled user
func (s *Service) Content(ctx context.Context, courseID, userID int64) (*ContentResponse, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.purchaser.IsEnrolled(ctx, userID, enrollment.Item{Kind: enrollment.KindCourse, ID: courseID})
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	completed, err := s.repo.CompletedVideoIDs(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.chapterRows(ctx, courseID)
	if err != nil {
		return nil, err
	}

	sections, videoCount, _ := buildSections(rows, completed)

	progress := 0
	if videoCount > 0 {
		progress = len(completed) * 100 / videoCount
	}

	return &ContentResponse{
		ID:       c.ID,
		Title:    c.Title,
		Sections: sections,
		Progress: progress,
	}, nil
}

// Enroll purchases the course for the user
func (s *Service) Enroll(ctx context.Context, userID, courseID int64) error {
	return s.purchaser.Enroll(ctx, userID, enrollment.Item{Kind: enrollment.KindCourse, ID: courseID})
}

// MyCourses returns the user's enrolled courses with progress
func (s *Service) MyCourses(ctx context.Context, userID int64) ([]EnrolledCourse, error) {
	courses, err := s.repo.ListEnrolled(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].VideoCount > 0 {
			courses[i].Progress = courses[i].CompletedCount * 100 / courses[i].VideoCount
		}
	}
	return courses, nil
}

// buildSections folds flattened chapter/video rows into midterm/final
// sections. completed is nil for the guest overview.
func buildSections(rows []chapterRow, completed map[int64]bool) (sections []Section, videoCount, totalSeconds int) {
	bySection := map[string][]ChapterOverview{}
	order := []string{"midterm", "final"}

	var current *ChapterOverview
	var currentSection string
	flush := func() {
		if current != nil {
			bySection[currentSection] = append(bySection[currentSection], *current)
			current = nil
		}
	}

	for _, row := range rows {
		if current == nil || current.ID != row.ChapterID {
			flush()
			ch := ChapterOverview{ID: row.ChapterID, Title: row.ChapterTitle, Videos: []VideoOverview{}}
			current = &ch
			currentSection = row.SectionType
		}
		if row.VideoID.Valid {
			v := VideoOverview{
				ID:       row.VideoID.Int64,
				Title:    row.VideoTitle.String,
				Duration: formatDuration(int(row.Duration.Int64)),
			}
			if completed != nil {
				done := completed[v.ID]
				v.Completed = &done
			}
			current.Videos = append(current.Videos, v)
			videoCount++
			totalSeconds += int(row.Duration.Int64)
		}
	}
	flush()

	if completed != nil {
		for _, chapters := range bySection {
			for i := range chapters {
				done := len(chapters[i].Videos) > 0
				for _, v := range chapters[i].Videos {
					if v.Completed == nil || !*v.Completed {
						done = false
						break
					}
				}
				chapters[i].Completed = &done
			}
		}
	}

	sections = []Section{}
	for _, sectionType := range order {
		if chapters, ok := bySection[sectionType]; ok {
			sections = append(sections, Section{Type: sectionType, Chapters: chapters})
		}
	}
	return sections, videoCount, totalSeconds
}

func formatDurations(items []ListItem) {
	for i := range items {
		items[i].Duration = formatDuration(items[i].TotalDuration)
	}
}

func posterKey(kind string, id int64) string {
	return fmt.Sprintf("posters/%s/%d", kind, id)
}
