package dto

import "time"

type ResourceWriteDTO struct {
	CohortID    *string `json:"cohort_id,omitempty" doc:"Owning cohort; exactly one of cohort_id and course_id"`
	CourseID    *string `json:"course_id,omitempty" doc:"Owning course; exactly one of cohort_id and course_id"`
	Kind        string  `json:"kind" enum:"video,pdf,zip" validate:"required,oneof=video pdf zip"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty" validate:"max=5000"`
	FileName    string  `json:"file_name,omitempty" validate:"max=255" doc:"Name of the file to upload. Required on create, empty keeps the stored file on update"`
	EarlyAccess *bool   `json:"early_access,omitempty" doc:"Visible to enrolled students before the cohort starts. Defaults to false"`
	Draft       *bool   `json:"draft,omitempty" doc:"Hidden from students. Defaults to true"`
}

// ResourceResponseDTO omits draft and early_access for non-staff viewers.
type ResourceResponseDTO struct {
	ID          string    `json:"id"`
	CohortID    *string   `json:"cohort_id"`
	CohortName  string    `json:"cohort_name,omitempty"`
	CourseID    *string   `json:"course_id"`
	CourseName  string    `json:"course_name,omitempty"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FileName    string    `json:"file_name"`
	EarlyAccess *bool     `json:"early_access,omitempty"`
	Draft       *bool     `json:"draft,omitempty"`
	CanAccess   bool      `json:"can_access"`
	FileURL     *string   `json:"file_url" doc:"Presigned download URL, null when the viewer cannot access the file yet"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ResourceUploadDTO struct {
	ResourceResponseDTO
	UploadURL string `json:"upload_url,omitempty" doc:"Presigned PUT URL for the declared file"`
}

type ResourceListDTO struct {
	Count   int                   `json:"count" doc:"Total matches before pagination"`
	Results []ResourceResponseDTO `json:"results"`
}

// StudentResourceDTO is what a student sees of an available resource.
type StudentResourceDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CohortName  string    `json:"cohort_name"`
	Kind        string    `json:"kind"`
	FileURL     *string   `json:"file_url"`
	CanAccess   bool      `json:"can_access"`
	CreatedAt   time.Time `json:"created_at"`
}

type StudentResourceListDTO struct {
	Count   int                  `json:"count" doc:"Total matches before pagination"`
	Results []StudentResourceDTO `json:"results"`
}
