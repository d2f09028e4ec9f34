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
	"github.com/Elias-Front-end/management-system/internal/pubsub"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResourceParams is the writable state of a resource.
// Nil flags keep the stored value on update and take the defaults on create.
type ResourceParams struct {
	CohortID    *string
	CourseID    *string
	Kind        model.ResourceKind
	Name        string
	Description string
	// FileName declares a new file to upload. Empty keeps the stored file.
	FileName    string
	EarlyAccess *bool
	Draft       *bool
}

// ResourceUpload is a written resource plus where to PUT its new file.
type ResourceUpload struct {
	ResourceView
	// UploadURL is empty when the write did not declare a new file.
	UploadURL string
}

// ResourceService defines the interface for resource operations
type ResourceService interface {
	// ListResources lists resources; drafts are hidden from non-staff viewers.
	ListResources(ctx context.Context, actor access.Actor, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error)
	GetResource(ctx context.Context, actor access.Actor, resourceID string) (*ResourceView, error)
	CreateResource(ctx context.Context, actor access.Actor, p ResourceParams) (*ResourceUpload, error)
	UpdateResource(ctx context.Context, actor access.Actor, resourceID string, p ResourceParams) (*ResourceUpload, error)
	DeleteResource(ctx context.Context, actor access.Actor, resourceID string) error

	// ListCourseResources lists resources attached to the course directly or through its cohorts.
	ListCourseResources(ctx context.Context, actor access.Actor, courseID string, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error)
	// ListCohortResources lists the cohort's resources visible to the viewer today.
	ListCohortResources(ctx context.Context, actor access.Actor, cohortID string, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error)
	// ListAvailableResources lists what the student can open today across enrolled cohorts.
	ListAvailableResources(ctx context.Context, actor access.Actor, studentID string, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error)
}

type resourceService struct {
	repo        repository.ResourceRepository
	cohortRepo  repository.CohortRepository
	courseRepo  repository.CourseRepository
	studentRepo repository.StudentRepository
	files       Files
	store       storage.FileStore
	events      pubsub.Emitter
	logger      zerolog.Logger
	now         func() time.Time
}

func NewResourceService(
	repo repository.ResourceRepository,
	cohortRepo repository.CohortRepository,
	courseRepo repository.CourseRepository,
	studentRepo repository.StudentRepository,
	files Files,
	events pubsub.Emitter,
	logger zerolog.Logger,
) ResourceService {
	return &resourceService{
		repo:        repo,
		cohortRepo:  cohortRepo,
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
		files:       files,
		store:       files.store,
		events:      events,
		logger:      logger.With().Str("service", "ResourceService").Logger(),
		now:         time.Now,
	}
}

func (s *resourceService) today() time.Time {
	return model.Today(s.now())
}

func (s *resourceService) ListResources(ctx context.Context, actor access.Actor, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityResource); err != nil {
		return nil, 0, err
	}
	f.PublishedOnly = !access.IsStaff(actor)
	resources, total, err := s.repo.ListResources(ctx, f, page)
	if err != nil {
		return nil, 0, err
	}
	return s.files.views(ctx, actor, resources, s.today()), total, nil
}

func (s *resourceService) GetResource(ctx context.Context, actor access.Actor, resourceID string) (*ResourceView, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityResource); err != nil {
		return nil, err
	}
	r, err := s.find(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if r.Draft && !access.IsStaff(actor) {
		return nil, notFound("resource", resourceID)
	}
	return &s.files.views(ctx, actor, []model.Resource{*r}, s.today())[0], nil
}

func (s *resourceService) find(ctx context.Context, resourceID string) (*model.Resource, error) {
	if !validID(resourceID) {
		return nil, notFound("resource", resourceID)
	}
	r, err := s.repo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, notFound("resource", resourceID)
	}
	return r, nil
}

// owner resolves the owning cohort and checks the referenced course or cohort exists.
func (s *resourceService) owner(ctx context.Context, p ResourceParams) (*model.Cohort, *model.ValidationError, error) {
	verr := model.NewValidationError()
	var cohort *model.Cohort
	if p.CohortID != nil && *p.CohortID != "" {
		if validID(*p.CohortID) {
			c, err := s.cohortRepo.GetCohortByID(ctx, *p.CohortID)
			if err != nil {
				return nil, nil, err
			}
			cohort = c
		}
		if cohort == nil {
			verr.Add("cohort_id", msgNotFound)
		}
	}
	if p.CourseID != nil && *p.CourseID != "" {
		var course *model.Course
		if validID(*p.CourseID) {
			c, err := s.courseRepo.GetCourseByID(ctx, *p.CourseID)
			if err != nil {
				return nil, nil, err
			}
			course = c
		}
		if course == nil {
			verr.Add("course_id", msgNotFound)
		}
	}
	return cohort, verr, nil
}

// check runs the eligibility write rules and merges in reference errors.
// check validates res as it would be saved. p.FileName is a newly declared file,
// res.FileName the one already stored.
func (s *resourceService) check(ctx context.Context, p ResourceParams, res *model.Resource) error {
	cohort, verr, err := s.owner(ctx, p)
	if err != nil {
		return err
	}
	in := eligibility.ResourceInput{
		CohortID:       res.CohortID,
		CourseID:       res.CourseID,
		Kind:           res.Kind,
		Name:           res.Name,
		EarlyAccess:    res.EarlyAccess,
		Draft:          res.Draft,
		FileName:       p.FileName,
		StoredFileName: storedFile(res),
	}
	if err := eligibility.ValidateResource(in, cohort, s.today()); err != nil {
		var rules *model.ValidationError
		if !errors.As(err, &rules) {
			return err
		}
		for field, msgs := range rules.Fields {
			if (field == "cohort_id" || field == "course_id") && verr.Has(field) {
				continue
			}
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
	}
	return verr.OrNil()
}

func storedFile(res *model.Resource) string {
	if res.FileKey == "" {
		return ""
	}
	return res.FileName
}

func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (s *resourceService) apply(res *model.Resource, p ResourceParams) {
	res.CohortID = nonEmpty(p.CohortID)
	res.CourseID = nonEmpty(p.CourseID)
	res.Kind = p.Kind
	res.Name = strings.TrimSpace(p.Name)
	res.Description = strings.TrimSpace(p.Description)
	if p.EarlyAccess != nil {
		res.EarlyAccess = *p.EarlyAccess
	}
	if p.Draft != nil {
		res.Draft = *p.Draft
	}
}

func (s *resourceService) CreateResource(ctx context.Context, actor access.Actor, p ResourceParams) (*ResourceUpload, error) {
	if err := access.Authorize(actor, access.ActionCreate, access.EntityResource); err != nil {
		return nil, err
	}
	res := &model.Resource{ID: uuid.NewString(), Draft: true}
	s.apply(res, p)
	if err := s.check(ctx, p, res); err != nil {
		return nil, err
	}
	res.FileName = p.FileName
	res.FileKey = storage.ObjectKey(res.ID, p.FileName)

	if err := s.repo.CreateResource(ctx, res); err != nil {
		return nil, storageError(err)
	}
	s.logger.Info().Str("resource_id", res.ID).Str("kind", string(res.Kind)).Msg("Resource created")
	if !res.Draft {
		s.published(ctx, res)
	}
	return s.upload(ctx, actor, res.ID, true)
}

func (s *resourceService) UpdateResource(ctx context.Context, actor access.Actor, resourceID string, p ResourceParams) (*ResourceUpload, error) {
	if err := access.Authorize(actor, access.ActionUpdate, access.EntityResource); err != nil {
		return nil, err
	}
	res, err := s.find(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	wasDraft := res.Draft
	s.apply(res, p)
	if err := s.check(ctx, p, res); err != nil {
		return nil, err
	}
	oldKey := ""
	if p.FileName != "" {
		oldKey = res.FileKey
		res.FileName = p.FileName
		res.FileKey = storage.ObjectKey(res.ID, p.FileName)
	}

	if err := s.repo.UpdateResource(ctx, res); err != nil {
		return nil, storageError(err)
	}
	if oldKey != "" {
		s.files.remove(ctx, oldKey)
	}
	if wasDraft && !res.Draft {
		s.published(ctx, res)
	}
	return s.upload(ctx, actor, res.ID, p.FileName != "")
}

// upload reloads the resource and presigns an upload URL when a new file was declared.
func (s *resourceService) upload(ctx context.Context, actor access.Actor, resourceID string, newFile bool) (*ResourceUpload, error) {
	res, err := s.find(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	out := &ResourceUpload{ResourceView: s.files.views(ctx, actor, []model.Resource{*res}, s.today())[0]}
	if newFile {
		url, err := s.store.PresignUpload(ctx, res.FileKey, storage.ContentType(res.FileName))
		if err != nil {
			return nil, fmt.Errorf("presigning upload for resource %s: %w", res.ID, err)
		}
		out.UploadURL = url
	}
	return out, nil
}

func (s *resourceService) published(ctx context.Context, res *model.Resource) {
	s.events.Emit(ctx, pubsub.EventResourcePublished, map[string]any{
		"resource_id":  res.ID,
		"cohort_id":    res.CohortID,
		"course_id":    res.CourseID,
		"kind":         res.Kind,
		"early_access": res.EarlyAccess,
	})
}

func (s *resourceService) DeleteResource(ctx context.Context, actor access.Actor, resourceID string) error {
	if err := access.Authorize(actor, access.ActionDelete, access.EntityResource); err != nil {
		return err
	}
	res, err := s.find(ctx, resourceID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteResource(ctx, resourceID); err != nil {
		return storageError(err)
	}
	s.files.remove(ctx, res.FileKey)
	s.logger.Info().Str("resource_id", resourceID).Msg("Resource deleted")
	return nil
}

func (s *resourceService) ListCourseResources(ctx context.Context, actor access.Actor, courseID string, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityResource); err != nil {
		return nil, 0, err
	}
	if !validID(courseID) {
		return nil, 0, notFound("course", courseID)
	}
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, 0, err
	}
	if course == nil {
		return nil, 0, notFound("course", courseID)
	}
	f.CourseID = courseID
	f.CohortID = ""
	f.StudentID = ""
	return s.ListResources(ctx, actor, f, page)
}

func (s *resourceService) ListCohortResources(ctx context.Context, actor access.Actor, cohortID string, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityResource); err != nil {
		return nil, 0, err
	}
	if _, err := findCohort(ctx, s.cohortRepo, cohortID); err != nil {
		return nil, 0, err
	}
	f.CohortID = cohortID
	f.CourseID = ""
	f.StudentID = ""
	f.PublishedOnly = false
	if access.IsStaff(actor) {
		resources, total, err := s.repo.ListResources(ctx, f, page)
		if err != nil {
			return nil, 0, err
		}
		return s.files.views(ctx, actor, resources, s.today()), total, nil
	}

	resources, _, err := s.repo.ListResources(ctx, f, repository.Page{})
	if err != nil {
		return nil, 0, err
	}
	today := s.today()
	visible := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if eligibility.IsVisible(r, actor, today) {
			visible = append(visible, r)
		}
	}
	return s.files.views(ctx, actor, paginate(visible, page), today), len(visible), nil
}

func (s *resourceService) ListAvailableResources(ctx context.Context, actor access.Actor, studentID string, f repository.ResourceFilter, page repository.Page) ([]ResourceView, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.StudentScope{StudentID: studentID}); err != nil {
		return nil, 0, err
	}
	if !validID(studentID) {
		return nil, 0, notFound("student", studentID)
	}
	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, 0, err
	}
	if student == nil {
		return nil, 0, notFound("student", studentID)
	}

	f.StudentID = studentID
	f.CohortID = ""
	f.CourseID = ""
	f.PublishedOnly = true
	resources, _, err := s.repo.ListResources(ctx, f, repository.Page{})
	if err != nil {
		return nil, 0, err
	}
	// Eligibility is evaluated as the student, also when staff ask on their behalf.
	viewer := access.Student{AccountID: student.AccountID, StudentID: student.ID}
	today := s.today()
	available := eligibility.AvailableForStudent(viewer, resources, today)
	return s.files.views(ctx, viewer, paginate(available, page), today), len(available), nil
}
