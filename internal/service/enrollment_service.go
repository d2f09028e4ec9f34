package service

import (
	"context"
	"strings"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/pubsub"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/rs/zerolog"
)

// EnrollmentParams links a student to a cohort.
type EnrollmentParams struct {
	StudentID string
	CohortID  string
}

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	// ListEnrollments lists enrollments. Students only see their own.
	ListEnrollments(ctx context.Context, actor access.Actor, f repository.EnrollmentFilter, page repository.Page) ([]model.Enrollment, int, error)
	GetEnrollment(ctx context.Context, actor access.Actor, enrollmentID string) (*model.Enrollment, error)
	CreateEnrollment(ctx context.Context, actor access.Actor, p EnrollmentParams) (*model.Enrollment, error)
	UpdateEnrollment(ctx context.Context, actor access.Actor, enrollmentID string, p EnrollmentParams) (*model.Enrollment, error)
	DeleteEnrollment(ctx context.Context, actor access.Actor, enrollmentID string) error
}

type enrollmentService struct {
	repo        repository.EnrollmentRepository
	studentRepo repository.StudentRepository
	cohortRepo  repository.CohortRepository
	events      pubsub.Emitter
	logger      zerolog.Logger
}

func NewEnrollmentService(
	repo repository.EnrollmentRepository,
	studentRepo repository.StudentRepository,
	cohortRepo repository.CohortRepository,
	events pubsub.Emitter,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:        repo,
		studentRepo: studentRepo,
		cohortRepo:  cohortRepo,
		events:      events,
		logger:      logger.With().Str("service", "EnrollmentService").Logger(),
	}
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, actor access.Actor, f repository.EnrollmentFilter, page repository.Page) ([]model.Enrollment, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityEnrollment); err != nil {
		return nil, 0, err
	}
	if studentID, ok := access.StudentID(actor); ok {
		f.StudentID = studentID
	}
	return s.repo.ListEnrollments(ctx, f, page)
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, actor access.Actor, enrollmentID string) (*model.Enrollment, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityEnrollment); err != nil {
		return nil, err
	}
	e, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionRead, access.StudentScope{StudentID: e.StudentID}); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) find(ctx context.Context, enrollmentID string) (*model.Enrollment, error) {
	if !validID(enrollmentID) {
		return nil, notFound("enrollment", enrollmentID)
	}
	e, err := s.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("enrollment", enrollmentID)
	}
	return e, nil
}

// validate checks both references and the (student, cohort) uniqueness.
// The unique constraint still decides races between concurrent requests.
func (s *enrollmentService) validate(ctx context.Context, p *EnrollmentParams, excludeID string) error {
	p.StudentID = strings.TrimSpace(p.StudentID)
	p.CohortID = strings.TrimSpace(p.CohortID)
	verr := model.NewValidationError()

	switch {
	case p.StudentID == "":
		verr.Add("student_id", msgRequired)
	case !validID(p.StudentID):
		verr.Add("student_id", msgNotFound)
	default:
		st, err := s.studentRepo.GetStudentByID(ctx, p.StudentID)
		if err != nil {
			return err
		}
		if st == nil {
			verr.Add("student_id", msgNotFound)
		}
	}
	switch {
	case p.CohortID == "":
		verr.Add("cohort_id", msgRequired)
	case !validID(p.CohortID):
		verr.Add("cohort_id", msgNotFound)
	default:
		c, err := s.cohortRepo.GetCohortByID(ctx, p.CohortID)
		if err != nil {
			return err
		}
		if c == nil {
			verr.Add("cohort_id", msgNotFound)
		}
	}
	if verr.Has("student_id") || verr.Has("cohort_id") {
		return verr
	}

	exists, err := s.repo.EnrollmentExists(ctx, p.StudentID, p.CohortID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return model.FieldError("cohort_id", msgAlreadyEnrolled)
	}
	return nil
}

func (s *enrollmentService) CreateEnrollment(ctx context.Context, actor access.Actor, p EnrollmentParams) (*model.Enrollment, error) {
	if err := access.Authorize(actor, access.ActionCreate, access.EntityEnrollment); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p, ""); err != nil {
		return nil, err
	}
	e := &model.Enrollment{StudentID: p.StudentID, CohortID: p.CohortID}
	if err := s.repo.CreateEnrollment(ctx, e); err != nil {
		return nil, storageError(err)
	}
	s.logger.Info().Str("enrollment_id", e.ID).Str("student_id", e.StudentID).Str("cohort_id", e.CohortID).Msg("Student enrolled")
	s.events.Emit(ctx, pubsub.EventEnrollmentCreated, map[string]any{
		"enrollment_id": e.ID,
		"student_id":    e.StudentID,
		"cohort_id":     e.CohortID,
		"enrolled_at":   e.EnrolledAt,
	})
	return s.find(ctx, e.ID)
}

func (s *enrollmentService) UpdateEnrollment(ctx context.Context, actor access.Actor, enrollmentID string, p EnrollmentParams) (*model.Enrollment, error) {
	if err := access.Authorize(actor, access.ActionUpdate, access.EntityEnrollment); err != nil {
		return nil, err
	}
	e, err := s.find(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p, e.ID); err != nil {
		return nil, err
	}
	e.StudentID = p.StudentID
	e.CohortID = p.CohortID
	if err := s.repo.UpdateEnrollment(ctx, e); err != nil {
		return nil, storageError(err)
	}
	return s.find(ctx, e.ID)
}

func (s *enrollmentService) DeleteEnrollment(ctx context.Context, actor access.Actor, enrollmentID string) error {
	if err := access.Authorize(actor, access.ActionDelete, access.EntityEnrollment); err != nil {
		return err
	}
	if _, err := s.find(ctx, enrollmentID); err != nil {
		return err
	}
	if err := s.repo.DeleteEnrollment(ctx, enrollmentID); err != nil {
		return storageError(err)
	}
	return nil
}
