package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/eligibility"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/rs/zerolog"
)

// CohortParams is the writable state of a cohort.
type CohortParams struct {
	CourseID   string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	AccessLink string
}

// CohortService defines the interface for cohort operations
type CohortService interface {
	ListCohorts(ctx context.Context, actor access.Actor, f repository.CohortFilter, page repository.Page) ([]model.Cohort, int, error)
	GetCohort(ctx context.Context, actor access.Actor, cohortID string) (*model.Cohort, error)
	CreateCohort(ctx context.Context, actor access.Actor, p CohortParams) (*model.Cohort, error)
	UpdateCohort(ctx context.Context, actor access.Actor, cohortID string, p CohortParams) (*model.Cohort, error)
	// DeleteCohort removes the cohort with its resources and enrollments, then the stored files.
	DeleteCohort(ctx context.Context, actor access.Actor, cohortID string) error
	// ListCohortStudents lists enrolled students. Students only see their own profile.
	ListCohortStudents(ctx context.Context, actor access.Actor, cohortID string, page repository.Page) ([]model.Student, int, error)
}

type cohortService struct {
	repo         repository.CohortRepository
	courseRepo   repository.CourseRepository
	resourceRepo repository.ResourceRepository
	studentRepo  repository.StudentRepository
	files        Files
	logger       zerolog.Logger
}

func NewCohortService(
	repo repository.CohortRepository,
	courseRepo repository.CourseRepository,
	resourceRepo repository.ResourceRepository,
	studentRepo repository.StudentRepository,
	files Files,
	logger zerolog.Logger,
) CohortService {
	return &cohortService{
		repo:         repo,
		courseRepo:   courseRepo,
		resourceRepo: resourceRepo,
		studentRepo:  studentRepo,
		files:        files,
		logger:       logger.With().Str("service", "CohortService").Logger(),
	}
}

func (s *cohortService) ListCohorts(ctx context.Context, actor access.Actor, f repository.CohortFilter, page repository.Page) ([]model.Cohort, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityCohort); err != nil {
		return nil, 0, err
	}
	return s.repo.ListCohorts(ctx, f, page)
}

func (s *cohortService) GetCohort(ctx context.Context, actor access.Actor, cohortID string) (*model.Cohort, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityCohort); err != nil {
		return nil, err
	}
	return findCohort(ctx, s.repo, cohortID)
}

func findCohort(ctx context.Context, repo repository.CohortRepository, cohortID string) (*model.Cohort, error) {
	if !validID(cohortID) {
		return nil, notFound("cohort", cohortID)
	}
	c, err := repo.GetCohortByID(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("cohort", cohortID)
	}
	return c, nil
}

// validate checks field rules and that the course exists.
func (s *cohortService) validate(ctx context.Context, p *CohortParams) error {
	p.Name = strings.TrimSpace(p.Name)
	p.AccessLink = strings.TrimSpace(p.AccessLink)
	verr := model.NewValidationError()
	if err := eligibility.ValidateCohort(p.Name, p.StartDate, p.EndDate); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}
	switch {
	case p.CourseID == "":
		verr.Add("course_id", msgRequired)
	case !validID(p.CourseID):
		verr.Add("course_id", msgNotFound)
	default:
		course, err := s.courseRepo.GetCourseByID(ctx, p.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			verr.Add("course_id", msgNotFound)
		}
	}
	return verr.OrNil()
}

func (s *cohortService) CreateCohort(ctx context.Context, actor access.Actor, p CohortParams) (*model.Cohort, error) {
	if err := access.Authorize(actor, access.ActionCreate, access.EntityCohort); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}
	c := &model.Cohort{
		CourseID:   p.CourseID,
		Name:       p.Name,
		StartDate:  model.DateOf(p.StartDate),
		EndDate:    model.DateOf(p.EndDate),
		AccessLink: p.AccessLink,
	}
	if err := s.repo.CreateCohort(ctx, c); err != nil {
		return nil, storageError(err)
	}
	s.logger.Info().Str("cohort_id", c.ID).Str("course_id", c.CourseID).Msg("Cohort created")
	return findCohort(ctx, s.repo, c.ID)
}

func (s *cohortService) UpdateCohort(ctx context.Context, actor access.Actor, cohortID string, p CohortParams) (*model.Cohort, error) {
	if err := access.Authorize(actor, access.ActionUpdate, access.EntityCohort); err != nil {
		return nil, err
	}
	c, err := findCohort(ctx, s.repo, cohortID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}
	c.CourseID = p.CourseID
	c.Name = p.Name
	c.StartDate = model.DateOf(p.StartDate)
	c.EndDate = model.DateOf(p.EndDate)
	c.AccessLink = p.AccessLink
	if err := s.repo.UpdateCohort(ctx, c); err != nil {
		return nil, storageError(err)
	}
	return findCohort(ctx, s.repo, c.ID)
}

func (s *cohortService) DeleteCohort(ctx context.Context, actor access.Actor, cohortID string) error {
	if err := access.Authorize(actor, access.ActionDelete, access.EntityCohort); err != nil {
		return err
	}
	if _, err := findCohort(ctx, s.repo, cohortID); err != nil {
		return err
	}
	keys, err := keysOf(ctx, s.resourceRepo, repository.ResourceFilter{CohortID: cohortID})
	if err != nil {
		return fmt.Errorf("collecting files of cohort %s: %w", cohortID, err)
	}
	if err := s.repo.DeleteCohort(ctx, cohortID); err != nil {
		return storageError(err)
	}
	s.files.remove(ctx, keys...)
	s.logger.Info().Str("cohort_id", cohortID).Int("files", len(keys)).Msg("Cohort deleted")
	return nil
}

func (s *cohortService) ListCohortStudents(ctx context.Context, actor access.Actor, cohortID string, page repository.Page) ([]model.Student, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityStudent); err != nil {
		return nil, 0, err
	}
	if _, err := findCohort(ctx, s.repo, cohortID); err != nil {
		return nil, 0, err
	}
	f := repository.StudentFilter{CohortID: cohortID}
	if studentID, ok := access.StudentID(actor); ok {
		f.ID = studentID
	}
	return s.studentRepo.ListStudents(ctx, f, page)
}
