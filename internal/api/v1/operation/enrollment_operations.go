package operation

import "github.com/Elias-Front-end/management-system/internal/api/v1/dto"

// Enrollment CRUD Operations

type ListEnrollmentsInput struct {
	PageInput
	StudentID string `query:"student_id" doc:"Only enrollments of this student"`
	CohortID  string `query:"cohort_id" doc:"Only enrollments in this cohort"`
}

type ListEnrollmentsOutput struct {
	Body dto.EnrollmentListDTO `json:"body"`
}

type CreateEnrollmentInput struct {
	Body dto.EnrollmentWriteDTO `json:"body"`
}

type CreateEnrollmentOutput struct {
	Body dto.EnrollmentResponseDTO `json:"body"`
}

type GetEnrollmentInput struct {
	EnrollmentID string `path:"enrollmentId" doc:"Enrollment ID"`
}

type GetEnrollmentOutput struct {
	Body dto.EnrollmentResponseDTO `json:"body"`
}

type UpdateEnrollmentInput struct {
	EnrollmentID string                 `path:"enrollmentId" doc:"Enrollment ID"`
	Body         dto.EnrollmentWriteDTO `json:"body"`
}

type UpdateEnrollmentOutput struct {
	Body dto.EnrollmentResponseDTO `json:"body"`
}

type DeleteEnrollmentInput struct {
	EnrollmentID string `path:"enrollmentId" doc:"Enrollment ID"`
}

type DeleteEnrollmentOutput struct {
	// 204 No Content
}
