package operation

import "github.com/Elias-Front-end/management-system/internal/api/v1/dto"

// Course CRUD Operations

type ListCoursesInput struct {
	PageInput
	Search string `query:"search" doc:"Case-insensitive match on name or description"`
}

type ListCoursesOutput struct {
	Body dto.CourseListDTO `json:"body"`
}

type CreateCourseInput struct {
	Body dto.CourseWriteDTO `json:"body"`
}

type CreateCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type GetCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type UpdateCourseInput struct {
	CourseID string             `path:"courseId" doc:"Course ID"`
	Body     dto.CourseWriteDTO `json:"body"`
}

type UpdateCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type DeleteCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type DeleteCourseOutput struct {
	// 204 No Content
}

type ListCourseResourcesInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
	PageInput
	Kind   string `query:"kind" enum:"video,pdf,zip" doc:"Filter by resource kind"`
	Search string `query:"search" doc:"Case-insensitive match on name or description"`
}

type ListCourseResourcesOutput struct {
	Body dto.ResourceListDTO `json:"body"`
}
