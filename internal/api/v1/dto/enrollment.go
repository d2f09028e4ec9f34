package dto

import "time"

type EnrollmentWriteDTO struct {
	StudentID string `json:"student_id" validate:"required"`
	CohortID  string `json:"cohort_id" validate:"required"`
}

type EnrollmentResponseDTO struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	CohortID    string    `json:"cohort_id"`
	CohortName  string    `json:"cohort_name"`
	CourseName  string    `json:"course_name"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

type EnrollmentListDTO struct {
	Count   int                     `json:"count" doc:"Total matches before pagination"`
	Results []EnrollmentResponseDTO `json:"results"`
}
