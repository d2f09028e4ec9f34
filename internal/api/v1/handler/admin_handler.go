package handler

import (
	"context"

	"github.com/Elias-Front-end/management-system/internal/api/v1/dto"
	"github.com/Elias-Front-end/management-system/internal/api/v1/operation"
	"github.com/Elias-Front-end/management-system/internal/metrics"
	"github.com/Elias-Front-end/management-system/internal/middleware"
	"github.com/Elias-Front-end/management-system/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminHandler handles staff account management. Every operation requires a superuser.
type AdminHandler struct {
	responder
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService, validate *validator.Validate, m *metrics.Metrics, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		responder:    newResponder(logger, m, validate),
		adminService: adminService,
	}
}

func (h *AdminHandler) ListAdmins(ctx context.Context, input *operation.ListAdminsInput) (*operation.ListAdminsOutput, error) {
	accounts, total, err := h.adminService.ListAdmins(ctx, middleware.ActorFromContext(ctx), toPage(input.PageInput))
	if err != nil {
		return nil, h.fail(err, "admin", "list")
	}
	return &operation.ListAdminsOutput{
		Body: dto.AdminListDTO{Count: total, Results: mapAll(accounts, accountDTO)},
	}, nil
}

func (h *AdminHandler) AdminStats(ctx context.Context, input *operation.AdminStatsInput) (*operation.AdminStatsOutput, error) {
	stats, err := h.adminService.AdminStats(ctx, middleware.ActorFromContext(ctx))
	if err != nil {
		return nil, h.fail(err, "admin", "count")
	}
	return &operation.AdminStatsOutput{Body: dto.AdminStatsDTO{
		TotalAdmins:   stats.TotalAdmins,
		SuperAdmins:   stats.SuperAdmins,
		RegularAdmins: stats.RegularAdmins,
	}}, nil
}

func (h *AdminHandler) CreateAdmin(ctx context.Context, input *operation.CreateAdminInput) (*operation.CreateAdminOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	b := input.Body
	account, err := h.adminService.CreateAdmin(ctx, middleware.ActorFromContext(ctx), service.AdminParams{
		Username:    &b.Username,
		Email:       b.Email,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		AccessLevel: b.AccessLevel,
		Password:    b.Password,
	})
	if err != nil {
		return nil, h.fail(err, "admin", "create")
	}
	return &operation.CreateAdminOutput{Body: accountDTO(*account)}, nil
}

func (h *AdminHandler) GetAdmin(ctx context.Context, input *operation.GetAdminInput) (*operation.GetAdminOutput, error) {
	account, err := h.adminService.GetAdmin(ctx, middleware.ActorFromContext(ctx), input.AccountID)
	if err != nil {
		return nil, h.fail(err, "admin", "retrieve")
	}
	return &operation.GetAdminOutput{Body: accountDTO(*account)}, nil
}

func (h *AdminHandler) UpdateAdmin(ctx context.Context, input *operation.UpdateAdminInput) (*operation.UpdateAdminOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	b := input.Body
	account, err := h.adminService.UpdateAdmin(ctx, middleware.ActorFromContext(ctx), input.AccountID, service.AdminParams{
		Username:    b.Username,
		Email:       b.Email,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		AccessLevel: b.AccessLevel,
	})
	if err != nil {
		return nil, h.fail(err, "admin", "update")
	}
	return &operation.UpdateAdminOutput{Body: accountDTO(*account)}, nil
}

func (h *AdminHandler) SetAdminPassword(ctx context.Context, input *operation.SetAdminPasswordInput) (*operation.SetAdminPasswordOutput, error) {
	if err := h.check(&input.Body); err != nil {
		return nil, err
	}
	if err := h.adminService.SetAdminPassword(ctx, middleware.ActorFromContext(ctx), input.AccountID, input.Body.Password); err != nil {
		return nil, h.fail(err, "admin", "change the password of")
	}
	return &operation.SetAdminPasswordOutput{}, nil
}

func (h *AdminHandler) DeleteAdmin(ctx context.Context, input *operation.DeleteAdminInput) (*operation.DeleteAdminOutput, error) {
	if err := h.adminService.DeleteAdmin(ctx, middleware.ActorFromContext(ctx), input.AccountID); err != nil {
		return nil, h.fail(err, "admin", "delete")
	}
	return &operation.DeleteAdminOutput{}, nil
}
