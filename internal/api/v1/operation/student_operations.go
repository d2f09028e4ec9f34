package operation

import "github.com/Elias-Front-end/management-system/internal/api/v1/dto"

// Student CRUD Operations

type ListStudentsInput struct {
	PageInput
	CohortID string `query:"cohort_id" doc:"Only students enrolled in this cohort"`
	Search   string `query:"search" doc:"Case-insensitive match on name or email"`
}

type ListStudentsOutput struct {
	Body dto.StudentListDTO `json:"body"`
}

type CreateStudentInput struct {
	Body dto.StudentWriteDTO `json:"body"`
}

type CreateStudentOutput struct {
	Body dto.StudentResponseDTO `json:"body"`
}

type GetStudentInput struct {
	StudentID string `path:"studentId" doc:"Student ID"`
}

type GetStudentOutput struct {
	Body dto.StudentResponseDTO `json:"body"`
}

type UpdateStudentInput struct {
	StudentID string              `path:"studentId" doc:"Student ID"`
	Body      dto.StudentWriteDTO `json:"body"`
}

type UpdateStudentOutput struct {
	Body dto.StudentResponseDTO `json:"body"`
}

type DeleteStudentInput struct {
	StudentID string `path:"studentId" doc:"Student ID"`
}

type DeleteStudentOutput struct {
	// 204 No Content
}

type ListStudentCohortsInput struct {
	StudentID string `path:"studentId" doc:"Student ID"`
	PageInput
}

type ListStudentCohortsOutput struct {
	Body dto.CohortListDTO `json:"body"`
}

type ListAvailableResourcesInput struct {
	StudentID string `path:"studentId" doc:"Student ID"`
	PageInput
	Kind   string `query:"kind" enum:"video,pdf,zip" doc:"Filter by resource kind"`
	Search string `query:"search" doc:"Case-insensitive match on name or description"`
}

type ListAvailableResourcesOutput struct {
	Body dto.StudentResourceListDTO `json:"body"`
}
