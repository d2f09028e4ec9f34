package dto

import "time"

type AccountResponseDTO struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	IsAdmin     bool       `json:"is_admin"`
	IsSuperuser bool       `json:"is_superuser"`
	AccessLevel string     `json:"access_level,omitempty" enum:"admin,superadmin"`
	IsActive    bool       `json:"is_active"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AdminCreateDTO struct {
	Username    string  `json:"username" validate:"required,max=150"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	AccessLevel *string `json:"access_level,omitempty" enum:"admin,superadmin" validate:"omitempty,oneof=admin superadmin" doc:"Defaults to admin"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
}

type AdminUpdateDTO struct {
	Username    *string `json:"username,omitempty" validate:"omitempty,max=150"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	AccessLevel *string `json:"access_level,omitempty" enum:"admin,superadmin" validate:"omitempty,oneof=admin superadmin"`
}

type AdminPasswordDTO struct {
	Password string `json:"password" validate:"required,max=128" doc:"At least 8 characters"`
}

type AdminStatsDTO struct {
	TotalAdmins   int `json:"total_admins"`
	SuperAdmins   int `json:"super_admins"`
	RegularAdmins int `json:"regular_admins"`
}

type AdminListDTO struct {
	Count   int                  `json:"count" doc:"Total matches before pagination"`
	Results []AccountResponseDTO `json:"results"`
}

type LoginRequestDTO struct {
	Username    string `json:"username" doc:"Username, or a student's full name"`
	Password    string `json:"password"`
	ProfileType string `json:"profile_type" doc:"Claimed profile: admin or student"`
}

type MeResponseDTO struct {
	Role    string              `json:"role" enum:"superuser,admin,student"`
	Account AccountResponseDTO  `json:"account"`
	Student *StudentResponseDTO `json:"student"`
}

type LoginResponseDTO struct {
	MeResponseDTO
	Token     string    `json:"token" doc:"Bearer token for non-browser clients"`
	ExpiresAt time.Time `json:"expires_at"`
}
