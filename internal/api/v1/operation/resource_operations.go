package operation

import "github.com/Elias-Front-end/management-system/internal/api/v1/dto"

// Resource CRUD Operations

type ListResourcesInput struct {
	PageInput
	CohortID string `query:"cohort_id" doc:"Only resources of this cohort"`
	CourseID string `query:"course_id" doc:"Resources of this course, directly or through its cohorts"`
	Kind     string `query:"kind" enum:"video,pdf,zip" doc:"Filter by resource kind"`
	Search   string `query:"search" doc:"Case-insensitive match on name or description"`
}

type ListResourcesOutput struct {
	Body dto.ResourceListDTO `json:"body"`
}

type CreateResourceInput struct {
	Body dto.ResourceWriteDTO `json:"body"`
}

type CreateResourceOutput struct {
	Body dto.ResourceUploadDTO `json:"body"`
}

type GetResourceInput struct {
	ResourceID string `path:"resourceId" doc:"Resource ID"`
}

type GetResourceOutput struct {
	Body dto.ResourceResponseDTO `json:"body"`
}

type UpdateResourceInput struct {
	ResourceID string               `path:"resourceId" doc:"Resource ID"`
	Body       dto.ResourceWriteDTO `json:"body"`
}

type UpdateResourceOutput struct {
	Body dto.ResourceUploadDTO `json:"body"`
}

type DeleteResourceInput struct {
	ResourceID string `path:"resourceId" doc:"Resource ID"`
}

type DeleteResourceOutput struct {
	// 204 No Content
}
