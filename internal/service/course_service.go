package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/rs/zerolog"
)

// CourseParams is the writable state of a course.
type CourseParams struct {
	Name        string
	Description string
}

// CourseService defines the interface for course operations
type CourseService interface {
	ListCourses(ctx context.Context, actor access.Actor, f repository.CourseFilter, page repository.Page) ([]model.Course, int, error)
	GetCourse(ctx context.Context, actor access.Actor, courseID string) (*model.Course, error)
	CreateCourse(ctx context.Context, actor access.Actor, p CourseParams) (*model.Course, error)
	UpdateCourse(ctx context.Context, actor access.Actor, courseID string, p CourseParams) (*model.Course, error)
	// DeleteCourse removes the course with its cohorts and resources, then their stored files.
	DeleteCourse(ctx context.Context, actor access.Actor, courseID string) error
}

type courseService struct {
	repo         repository.CourseRepository
	resourceRepo repository.ResourceRepository
	files        Files
	logger       zerolog.Logger
}

func NewCourseService(
	repo repository.CourseRepository,
	resourceRepo repository.ResourceRepository,
	files Files,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		repo:         repo,
		resourceRepo: resourceRepo,
		files:        files,
		logger:       logger.With().Str("service", "CourseService").Logger(),
	}
}

func validateCourse(p *CourseParams) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if len([]rune(p.Name)) < 3 {
		return model.FieldError("name", msgNameTooShort)
	}
	return nil
}

func (s *courseService) ListCourses(ctx context.Context, actor access.Actor, f repository.CourseFilter, page repository.Page) ([]model.Course, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityCourse); err != nil {
		return nil, 0, err
	}
	return s.repo.ListCourses(ctx, f, page)
}

func (s *courseService) GetCourse(ctx context.Context, actor access.Actor, courseID string) (*model.Course, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityCourse); err != nil {
		return nil, err
	}
	return s.find(ctx, courseID)
}

func (s *courseService) find(ctx context.Context, courseID string) (*model.Course, error) {
	if !validID(courseID) {
		return nil, notFound("course", courseID)
	}
	c, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("course", courseID)
	}
	return c, nil
}

func (s *courseService) CreateCourse(ctx context.Context, actor access.Actor, p CourseParams) (*model.Course, error) {
	if err := access.Authorize(actor, access.ActionCreate, access.EntityCourse); err != nil {
		return nil, err
	}
	if err := validateCourse(&p); err != nil {
		return nil, err
	}
	c := &model.Course{Name: p.Name, Description: p.Description}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, storageError(err)
	}
	s.logger.Info().Str("course_id", c.ID).Msg("Course created")
	return c, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, actor access.Actor, courseID string, p CourseParams) (*model.Course, error) {
	if err := access.Authorize(actor, access.ActionUpdate, access.EntityCourse); err != nil {
		return nil, err
	}
	c, err := s.find(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := validateCourse(&p); err != nil {
		return nil, err
	}
	c.Name = p.Name
	c.Description = p.Description
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, storageError(err)
	}
	return c, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, actor access.Actor, courseID string) error {
	if err := access.Authorize(actor, access.ActionDelete, access.EntityCourse); err != nil {
		return err
	}
	if _, err := s.find(ctx, courseID); err != nil {
		return err
	}
	keys, err := keysOf(ctx, s.resourceRepo, repository.ResourceFilter{CourseID: courseID})
	if err != nil {
		return fmt.Errorf("collecting files of course %s: %w", courseID, err)
	}
	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		return storageError(err)
	}
	s.files.remove(ctx, keys...)
	s.logger.Info().Str("course_id", courseID).Int("files", len(keys)).Msg("Course deleted")
	return nil
}
