package dto

import "time"

type CohortWriteDTO struct {
	CourseID   string `json:"course_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=200"`
	StartDate  string `json:"start_date" format:"date" validate:"required,datetime=2006-01-02" doc:"First day, YYYY-MM-DD"`
	EndDate    string `json:"end_date" format:"date" validate:"required,datetime=2006-01-02" doc:"Last day, YYYY-MM-DD; after start_date"`
	AccessLink string `json:"access_link,omitempty" validate:"omitempty,url" doc:"Meeting or classroom link"`
}

type CohortResponseDTO struct {
	ID                string    `json:"id"`
	CourseID          string    `json:"course_id"`
	CourseName        string    `json:"course_name"`
	CourseDescription string    `json:"course_description"`
	Name              string    `json:"name"`
	StartDate         string    `json:"start_date"`
	EndDate           string    `json:"end_date"`
	AccessLink        string    `json:"access_link"`
	StudentCount      int       `json:"student_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CohortListDTO struct {
	Count   int                 `json:"count" doc:"Total matches before pagination"`
	Results []CohortResponseDTO `json:"results"`
}
