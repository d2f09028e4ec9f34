package operation

import "github.com/Elias-Front-end/management-system/internal/api/v1/dto"

// Admin Account Operations

type ListAdminsInput struct {
	PageInput
}

type ListAdminsOutput struct {
	Body dto.AdminListDTO `json:"body"`
}

type AdminStatsInput struct{}

type AdminStatsOutput struct {
	Body dto.AdminStatsDTO `json:"body"`
}

type CreateAdminInput struct {
	Body dto.AdminCreateDTO `json:"body"`
}

type CreateAdminOutput struct {
	Body dto.AccountResponseDTO `json:"body"`
}

type GetAdminInput struct {
	AccountID string `path:"accountId" doc:"Admin account ID"`
}

type GetAdminOutput struct {
	Body dto.AccountResponseDTO `json:"body"`
}

type UpdateAdminInput struct {
	AccountID string             `path:"accountId" doc:"Admin account ID"`
	Body      dto.AdminUpdateDTO `json:"body"`
}

type UpdateAdminOutput struct {
	Body dto.AccountResponseDTO `json:"body"`
}

type SetAdminPasswordInput struct {
	AccountID string               `path:"accountId" doc:"Admin account ID"`
	Body      dto.AdminPasswordDTO `json:"body"`
}

type SetAdminPasswordOutput struct {
	// 204 No Content
}

type DeleteAdminInput struct {
	AccountID string `path:"accountId" doc:"Admin account ID"`
}

type DeleteAdminOutput struct {
	// 204 No Content
}
