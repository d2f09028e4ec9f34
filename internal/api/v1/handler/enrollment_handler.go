package handler

import (
	"context"

	"github.com/Elias-Front-end/management-system/internal/api/v1/dto"
	"github.com/Elias-Front-end/management-system/internal/api/v1/operation"
	"github.com/Elias-Front-end/management-system/internal/metrics"
	"github.com/Elias-Front-end/management-system/internal/middleware"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// EnrollmentHandler handles enrollment endpoints
type EnrollmentHandler struct {
	responder
	enrollmentService service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollmentService service.EnrollmentService, validate *validator.Validate, m *metrics.Metrics, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		responder:         newResponder(logger, m, validate),
		enrollmentService: enrollmentService,
	}
}

func (h *EnrollmentHandler) ListEnrollments(ctx context.Context, input *operation.ListEnrollmentsInput) (*operation.ListEnrollmentsOutput, error) {
	f := repository.EnrollmentFilter{StudentID: input.StudentID, CohortID: input.CohortID}
	enrollments, total, err := h.enrollmentService.ListEnrollments(ctx, middleware.ActorFromContext(ctx), f, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "enrollment", "list")
	}
	return &operation.ListEnrollmentsOutput{
		Body: dto.EnrollmentListDTO{Count: total, Results: mapAll(enrollments, enrollmentDTO)},
	}, nil
}

func (h *EnrollmentHandler) CreateEnrollment(ctx context.Context, input *operation.CreateEnrollmentInput) (*operation.CreateEnrollmentOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	e, err := h.enrollmentService.CreateEnrollment(ctx, middleware.ActorFromContext(ctx), service.EnrollmentParams{
		StudentID: input.Body.StudentID,
		CohortID:  input.Body.CohortID,
	})
	if err != nil {
		return nil, h.fail(err, "enrollment", "create")
	}
	return &operation.CreateEnrollmentOutput{Body: enrollmentDTO(*e)}, nil
}

func (h *EnrollmentHandler) GetEnrollment(ctx context.Context, input *operation.GetEnrollmentInput) (*operation.GetEnrollmentOutput, error) {
	e, err := h.enrollmentService.GetEnrollment(ctx, middleware.ActorFromContext(ctx), input.EnrollmentID)
	if err != nil {
		return nil, h.fail(err, "enrollment", "retrieve")
	}
	return &operation.GetEnrollmentOutput{Body: enrollmentDTO(*e)}, nil
}

func (h *EnrollmentHandler) UpdateEnrollment(ctx context.Context, input *operation.UpdateEnrollmentInput) (*operation.UpdateEnrollmentOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	e, err := h.enrollmentService.UpdateEnrollment(ctx, middleware.ActorFromContext(ctx), input.EnrollmentID, service.EnrollmentParams{
		StudentID: input.Body.StudentID,
		CohortID:  input.Body.CohortID,
	})
	if err != nil {
		return nil, h.fail(err, "enrollment", "update")
	}
	return &operation.UpdateEnrollmentOutput{Body: enrollmentDTO(*e)}, nil
}

func (h *EnrollmentHandler) DeleteEnrollment(ctx context.Context, input *operation.DeleteEnrollmentInput) (*operation.DeleteEnrollmentOutput, error) {
	if err := h.enrollmentService.DeleteEnrollment(ctx, middleware.ActorFromContext(ctx), input.EnrollmentID); err != nil {
		return nil, h.fail(err, "enrollment", "delete")
	}
	return &operation.DeleteEnrollmentOutput{}, nil
}
