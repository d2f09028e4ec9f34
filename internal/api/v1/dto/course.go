package dto

import "time"

type CourseWriteDTO struct {
	Name        string `json:"name" validate:"required,max=200" doc:"Course name, at least 3 characters"`
	Description string `json:"description,omitempty" validate:"max=5000"`
}

type CourseResponseDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CourseListDTO struct {
	Count   int                 `json:"count" doc:"Total matches before pagination"`
	Results []CourseResponseDTO `json:"results"`
}
