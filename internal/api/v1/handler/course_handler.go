package handler

import (
	"context"

	"github.com/Elias-Front-end/management-system/internal/api/v1/dto"
	"github.com/Elias-Front-end/management-system/internal/api/v1/operation"
	"github.com/Elias-Front-end/management-system/internal/metrics"
	"github.com/Elias-Front-end/management-system/internal/middleware"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles course endpoints
type CourseHandler struct {
	responder
	courseService   service.CourseService
	resourceService service.ResourceService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(
	courseService service.CourseService,
	resourceService service.ResourceService,
	validate *validator.Validate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		responder:       newResponder(logger, m, validate),
		courseService:   courseService,
		resourceService: resourceService,
	}
}

func (h *CourseHandler) ListCourses(ctx context.Context, input *operation.ListCoursesInput) (*operation.ListCoursesOutput, error) {
	actor := middleware.ActorFromContext(ctx)
	courses, total, err := h.courseService.ListCourses(ctx, actor, repository.CourseFilter{Search: input.Search}, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "course", "list")
	}
	return &operation.ListCoursesOutput{
		Body: dto.CourseListDTO{Count: total, Results: mapAll(courses, courseDTO)},
	}, nil
}

func (h *CourseHandler) CreateCourse(ctx context.Context, input *operation.CreateCourseInput) (*operation.CreateCourseOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	actor := middleware.ActorFromContext(ctx)
	course, err := h.courseService.CreateCourse(ctx, actor, service.CourseParams{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, h.fail(err, "course", "create")
	}
	return &operation.CreateCourseOutput{Body: courseDTO(*course)}, nil
}

func (h *CourseHandler) GetCourse(ctx context.Context, input *operation.GetCourseInput) (*operation.GetCourseOutput, error) {
	course, err := h.courseService.GetCourse(ctx, middleware.ActorFromContext(ctx), input.CourseID)
	if err != nil {
		return nil, h.fail(err, "course", "retrieve")
	}
	return &operation.GetCourseOutput{Body: courseDTO(*course)}, nil
}

func (h *CourseHandler) UpdateCourse(ctx context.Context, input *operation.UpdateCourseInput) (*operation.UpdateCourseOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	course, err := h.courseService.UpdateCourse(ctx, middleware.ActorFromContext(ctx), input.CourseID, service.CourseParams{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, h.fail(err, "course", "update")
	}
	return &operation.UpdateCourseOutput{Body: courseDTO(*course)}, nil
}

func (h *CourseHandler) DeleteCourse(ctx context.Context, input *operation.DeleteCourseInput) (*operation.DeleteCourseOutput, error) {
	if err := h.courseService.DeleteCourse(ctx, middleware.ActorFromContext(ctx), input.CourseID); err != nil {
		return nil, h.fail(err, "course", "delete")
	}
	return &operation.DeleteCourseOutput{}, nil
}

func (h *CourseHandler) ListCourseResources(ctx context.Context, input *operation.ListCourseResourcesInput) (*operation.ListCourseResourcesOutput, error) {
	actor := middleware.ActorFromContext(ctx)
	f := repository.ResourceFilter{Kind: model.ResourceKind(input.Kind), Search: input.Search}
	views, total, err := h.resourceService.ListCourseResources(ctx, actor, input.CourseID, f, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "course", "list resources of")
	}
	return &operation.ListCourseResourcesOutput{
		Body: dto.ResourceListDTO{Count: total, Results: resourceViews(views, actor)},
	}, nil
}
