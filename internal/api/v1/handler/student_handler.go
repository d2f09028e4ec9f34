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

// StudentHandler handles student endpoints, including a student's cohorts and available resources.
type StudentHandler struct {
	responder
	studentService  service.StudentService
	resourceService service.ResourceService
}

func NewStudentHandler(
	studentService service.StudentService,
	resourceService service.ResourceService,
	validate *validator.Validate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *StudentHandler {
	return &StudentHandler{
		responder:       newResponder(logger, m, validate),
		studentService:  studentService,
		resourceService: resourceService,
	}
}

func studentParams(body dto.StudentWriteDTO) service.StudentParams {
	return service.StudentParams{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Username: body.Username,
		Password: body.Password,
	}
}

func (h *StudentHandler) ListStudents(ctx context.Context, input *operation.ListStudentsInput) (*operation.ListStudentsOutput, error) {
	f := repository.StudentFilter{CohortID: input.CohortID, Search: input.Search}
	students, total, err := h.studentService.ListStudents(ctx, middleware.ActorFromContext(ctx), f, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "student", "list")
	}
	return &operation.ListStudentsOutput{
		Body: dto.StudentListDTO{Count: total, Results: mapAll(students, studentDTO)},
	}, nil
}

func (h *StudentHandler) CreateStudent(ctx context.Context, input *operation.CreateStudentInput) (*operation.CreateStudentOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	student, err := h.studentService.CreateStudent(ctx, middleware.ActorFromContext(ctx), studentParams(input.Body))
	if err != nil {
		return nil, h.fail(err, "student", "create")
	}
	return &operation.CreateStudentOutput{Body: studentDTO(*student)}, nil
}

func (h *StudentHandler) GetStudent(ctx context.Context, input *operation.GetStudentInput) (*operation.GetStudentOutput, error) {
	student, err := h.studentService.GetStudent(ctx, middleware.ActorFromContext(ctx), input.StudentID)
	if err != nil {
		return nil, h.fail(err, "student", "retrieve")
	}
	return &operation.GetStudentOutput{Body: studentDTO(*student)}, nil
}

func (h *StudentHandler) UpdateStudent(ctx context.Context, input *operation.UpdateStudentInput) (*operation.UpdateStudentOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	student, err := h.studentService.UpdateStudent(ctx, middleware.ActorFromContext(ctx), input.StudentID, studentParams(input.Body))
	if err != nil {
		return nil, h.fail(err, "student", "update")
	}
	return &operation.UpdateStudentOutput{Body: studentDTO(*student)}, nil
}

func (h *StudentHandler) DeleteStudent(ctx context.Context, input *operation.DeleteStudentInput) (*operation.DeleteStudentOutput, error) {
	if err := h.studentService.DeleteStudent(ctx, middleware.ActorFromContext(ctx), input.StudentID); err != nil {
		return nil, h.fail(err, "student", "delete")
	}
	return &operation.DeleteStudentOutput{}, nil
}

func (h *StudentHandler) ListStudentCohorts(ctx context.Context, input *operation.ListStudentCohortsInput) (*operation.ListStudentCohortsOutput, error) {
	cohorts, total, err := h.studentService.ListStudentCohorts(ctx, middleware.ActorFromContext(ctx), input.StudentID, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "student", "list cohorts of")
	}
	return &operation.ListStudentCohortsOutput{
		Body: dto.CohortListDTO{Count: total, Results: mapAll(cohorts, cohortDTO)},
	}, nil
}

func (h *StudentHandler) ListAvailableResources(ctx context.Context, input *operation.ListAvailableResourcesInput) (*operation.ListAvailableResourcesOutput, error) {
	f := repository.ResourceFilter{Kind: model.ResourceKind(input.Kind), Search: input.Search}
	views, total, err := h.resourceService.ListAvailableResources(ctx, middleware.ActorFromContext(ctx), input.StudentID, f, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "student", "list resources of")
	}
	return &operation.ListAvailableResourcesOutput{
		Body: dto.StudentResourceListDTO{Count: total, Results: mapAll(views, studentResourceDTO)},
	}, nil
}
