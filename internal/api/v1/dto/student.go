package dto

import "time"

type StudentWriteDTO struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Email    string  `json:"email" format:"email" validate:"required,email,max=254"`
	Phone    string  `json:"phone,omitempty" validate:"max=30"`
	Username *string `json:"username,omitempty" validate:"omitempty,max=150" doc:"Login name; derived from the email when omitted on create"`
	Password *string `json:"password,omitempty" validate:"omitempty,max=128" doc:"At least 8 characters; omitted leaves the account without a usable password"`
}

type StudentResponseDTO struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Username        string    `json:"username"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	EnrollmentCount int       `json:"enrollment_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type StudentListDTO struct {
	Count   int                  `json:"count" doc:"Total matches before pagination"`
	Results []StudentResponseDTO `json:"results"`
}
