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

// ResourceHandler handles resource endpoints
type ResourceHandler struct {
	responder
	resourceService service.ResourceService
}

// NewResourceHandler creates a new ResourceHandler
func NewResourceHandler(resourceService service.ResourceService, validate *validator.Validate, m *metrics.Metrics, logger zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		responder:       newResponder(logger, m, validate),
		resourceService: resourceService,
	}
}

func resourceParams(body dto.ResourceWriteDTO) service.ResourceParams {
	return service.ResourceParams{
		CohortID:    body.CohortID,
		CourseID:    body.CourseID,
		Kind:        model.ResourceKind(body.Kind),
		Name:        body.Name,
		Description: body.Description,
		FileName:    body.FileName,
		EarlyAccess: body.EarlyAccess,
		Draft:       body.Draft,
	}
}

func (h *ResourceHandler) ListResources(ctx context.Context, input *operation.ListResourcesInput) (*operation.ListResourcesOutput, error) {
	actor := middleware.ActorFromContext(ctx)
	f := repository.ResourceFilter{
		CohortID: input.CohortID,
		CourseID: input.CourseID,
		Kind:     model.ResourceKind(input.Kind),
		Search:   input.Search,
	}
	views, total, err := h.resourceService.ListResources(ctx, actor, f, toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "resource", "list")
	}
	return &operation.ListResourcesOutput{
		Body: dto.ResourceListDTO{Count: total, Results: resourceViews(views, actor)},
	}, nil
}

func (h *ResourceHandler) CreateResource(ctx context.Context, input *operation.CreateResourceInput) (*operation.CreateResourceOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	actor := middleware.ActorFromContext(ctx)
	upload, err := h.resourceService.CreateResource(ctx, actor, resourceParams(input.Body))
	if err != nil {
		return nil, h.fail(err, "resource", "create")
	}
	return &operation.CreateResourceOutput{Body: uploadDTO(upload, actor)}, nil
}

func (h *ResourceHandler) GetResource(ctx context.Context, input *operation.GetResourceInput) (*operation.GetResourceOutput, error) {
	actor := middleware.ActorFromContext(ctx)
	view, err := h.resourceService.GetResource(ctx, actor, input.ResourceID)
	if err != nil {
		return nil, h.fail(err, "resource", "retrieve")
	}
	return &operation.GetResourceOutput{Body: resourceViews([]service.ResourceView{*view}, actor)[0]}, nil
}

func (h *ResourceHandler) UpdateResource(ctx context.Context, input *operation.UpdateResourceInput) (*operation.UpdateResourceOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	actor := middleware.ActorFromContext(ctx)
	upload, err := h.resourceService.UpdateResource(ctx, actor, input.ResourceID, resourceParams(input.Body))
	if err != nil {
		return nil, h.fail(err, "resource", "update")
	}
	return &operation.UpdateResourceOutput{Body: uploadDTO(upload, actor)}, nil
}

func (h *ResourceHandler) DeleteResource(ctx context.Context, input *operation.DeleteResourceInput) (*operation.DeleteResourceOutput, error) {
	if err := h.resourceService.DeleteResource(ctx, middleware.ActorFromContext(ctx), input.ResourceID); err != nil {
		return nil, h.fail(err, "resource", "delete")
	}
	return &operation.DeleteResourceOutput{}, nil
}
