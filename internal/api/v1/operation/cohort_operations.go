package operation

import "github.com/Elias-Front-end/management-system/internal/api/v1/dto"

// Cohort CRUD Operations

type ListCohortsInput struct {
	PageInput
	CourseID string `query:"course_id" doc:"Only cohorts of this course"`
	Search   string `query:"search" doc:"Case-insensitive match on cohort or course name"`
}

type ListCohortsOutput struct {
	Body dto.CohortListDTO `json:"body"`
}

type CreateCohortInput struct {
	Body dto.CohortWriteDTO `json:"body"`
}

type CreateCohortOutput struct {
	Body dto.CohortResponseDTO `json:"body"`
}

type GetCohortInput struct {
	CohortID string `path:"cohortId" doc:"Cohort ID"`
}

type GetCohortOutput struct {
	Body dto.CohortResponseDTO `json:"body"`
}

type UpdateCohortInput struct {
	CohortID string             `path:"cohortId" doc:"Cohort ID"`
	Body     dto.CohortWriteDTO `json:"body"`
}

type UpdateCohortOutput struct {
	Body dto.CohortResponseDTO `json:"body"`
}

type DeleteCohortInput struct {
	CohortID string `path:"cohortId" doc:"Cohort ID"`
}

type DeleteCohortOutput struct {
	// 204 No Content
}

type ListCohortResourcesInput struct {
	CohortID string `path:"cohortId" doc:"Cohort ID"`
	PageInput
	Kind   string `query:"kind" enum:"video,pdf,zip" doc:"Filter by resource kind"`
	Search string `query:"search" doc:"Case-insensitive match on name or description"`
}

type ListCohortResourcesOutput struct {
	Body dto.ResourceListDTO `json:"body"`
}

type ListCohortStudentsInput struct {
	CohortID string `path:"cohortId" doc:"Cohort ID"`
	PageInput
}

type ListCohortStudentsOutput struct {
	Body dto.StudentListDTO `json:"body"`
}
