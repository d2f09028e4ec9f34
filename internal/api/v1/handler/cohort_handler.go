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

// CohortHandler handles cohort endpoints, including the cohort's resources and roster.
type CohortHandler struct {
	responder
	cohortService   service.CohortService
	resourceService service.ResourceService
}

func NewCohortHandler(
	cohortService service.CohortService,
	resourceService service.ResourceService,
	validate *validator.Validate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *CohortHandler {
	return &CohortHandler{
		responder:       newResponder(logger, m, validate),
		cohortService:   cohortService,
		resourceService: resourceService,
	}
}

// cohortParams parses the write body. Date errors are reported like domain validation.
func cohortParams(body dto.CohortWriteDTO) (service.CohortParams, error) {
	verr := model.NewValidationError()
	start, err := model.ParseDate(body.StartDate)
	if err != nil {
		verr.Add("start_date", "must be a date in YYYY-MM-DD format")
	}
	end, err := model.ParseDate(body.EndDate)
	if err != nil {
		verr.Add("end_date", "must be a date in YYYY-MM-DD format")
	}
	if err := verr.OrNil(); err != nil {
		return service.CohortParams{}, err
	}
	return service.CohortParams{
		CourseID:   body.CourseID,
		Name:       body.Name,
		StartDate:  start,
		EndDate:    end,
		AccessLink: body.AccessLink,
	}, nil
}

func (h *CohortHandler) ListCohorts(ctx context.Context, input *operation.ListCohortsInput) (*operation.ListCohortsOutput, error) {
	f := repository.CohortFilter{CourseID: input.CourseID, Search: input.Search}
	cohorts, total, err := h.cohortService.ListCohorts(ctx, middleware.ActorFromContext(ctx), f, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "cohort", "list")
	}
	return &operation.ListCohortsOutput{
		Body: dto.CohortListDTO{Count: total, Results: mapAll(cohorts, cohortDTO)},
	}, nil
}

func (h *CohortHandler) CreateCohort(ctx context.Context, input *operation.CreateCohortInput) (*operation.CreateCohortOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	p, err := cohortParams(input.Body)
	if err != nil {
		return nil, h.fail(err, "cohort", "create")
	}
	cohort, err := h.cohortService.CreateCohort(ctx, middleware.ActorFromContext(ctx), p)
	if err != nil {
		return nil, h.fail(err, "cohort", "create")
	}
	return &operation.CreateCohortOutput{Body: cohortDTO(*cohort)}, nil
}

func (h *CohortHandler) GetCohort(ctx context.Context, input *operation.GetCohortInput) (*operation.GetCohortOutput, error) {
	cohort, err := h.cohortService.GetCohort(ctx, middleware.ActorFromContext(ctx), input.CohortID)
	if err != nil {
		return nil, h.fail(err, "cohort", "retrieve")
	}
	return &operation.GetCohortOutput{Body: cohortDTO(*cohort)}, nil
}

func (h *CohortHandler) UpdateCohort(ctx context.Context, input *operation.UpdateCohortInput) (*operation.UpdateCohortOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	p, err := cohortParams(input.Body)
	if err != nil {
		return nil, h.fail(err, "cohort", "update")
	}
	cohort, err := h.cohortService.UpdateCohort(ctx, middleware.ActorFromContext(ctx), input.CohortID, p)
	if err != nil {
		return nil, h.fail(err, "cohort", "update")
	}
	return &operation.UpdateCohortOutput{Body: cohortDTO(*cohort)}, nil
}

func (h *CohortHandler) DeleteCohort(ctx context.Context, input *operation.DeleteCohortInput) (*operation.DeleteCohortOutput, error) {
	if err := h.cohortService.DeleteCohort(ctx, middleware.ActorFromContext(ctx), input.CohortID); err != nil {
		return nil, h.fail(err, "cohort", "delete")
	}
	return &operation.DeleteCohortOutput{}, nil
}

func (h *CohortHandler) ListCohortResources(ctx context.Context, input *operation.ListCohortResourcesInput) (*operation.ListCohortResourcesOutput, error) {
	actor := middleware.ActorFromContext(ctx)
	f := repository.ResourceFilter{Kind: model.ResourceKind(input.Kind), Search: input.Search}
	views, total, err := h.resourceService.ListCohortResources(ctx, actor, input.CohortID, f, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "cohort", "list resources of")
	}
	return &operation.ListCohortResourcesOutput{
		Body: dto.ResourceListDTO{Count: total, Results: resourceViews(views, actor)},
	}, nil
}

func (h *CohortHandler) ListCohortStudents(ctx context.Context, input *operation.ListCohortStudentsInput) (*operation.ListCohortStudentsOutput, error) {
	students, total, err := h.cohortService.ListCohortStudents(ctx, middleware.ActorFromContext(ctx), input.CohortID, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "cohort", "list students of")
	}
	return &operation.ListCohortStudentsOutput{
		Body: dto.StudentListDTO{Count: total, Results: mapAll(students, studentDTO)},
	}, nil
}
