package handler

import (
	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/api/v1/dto"
	"github.com/Elias-Front-end/management-system/internal/api/v1/operation"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/service"
)

func toPage(p operation.PageInput) repository.Page {
	return repository.Page{Limit: p.Limit, Offset: p.Offset}
}

func mapAll[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func courseDTO(c model.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func cohortDTO(c model.Cohort) dto.CohortResponseDTO {
	return dto.CohortResponseDTO{
		ID:                c.ID,
		CourseID:          c.CourseID,
		CourseName:        c.CourseName,
		CourseDescription: c.CourseDescription,
		Name:              c.Name,
		StartDate:         c.StartDate.Format(model.DateLayout),
		EndDate:           c.EndDate.Format(model.DateLayout),
		AccessLink:        c.AccessLink,
		StudentCount:      c.StudentCount,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// resourceDTO shows the publication flags to staff only.
func resourceDTO(v service.ResourceView, staff bool) dto.ResourceResponseDTO {
	out := dto.ResourceResponseDTO{
		ID:          v.ID,
		CohortID:    v.CohortID,
		CohortName:  v.CohortName,
		CourseID:    v.CourseID,
		CourseName:  v.CourseName,
		Kind:        string(v.Kind),
		Name:        v.Name,
		Description: v.Description,
		FileName:    v.FileName,
		CanAccess:   v.CanAccess,
		FileURL:     v.FileURL,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if staff {
		early, draft := v.EarlyAccess, v.Draft
		out.EarlyAccess = &early
		out.Draft = &draft
	}
	return out
}

func resourceViews(views []service.ResourceView, actor access.Actor) []dto.ResourceResponseDTO {
	staff := access.IsStaff(actor)
	return mapAll(views, func(v service.ResourceView) dto.ResourceResponseDTO { return resourceDTO(v, staff) })
}

func uploadDTO(u *service.ResourceUpload, actor access.Actor) dto.ResourceUploadDTO {
	return dto.ResourceUploadDTO{
		ResourceResponseDTO: resourceDTO(u.ResourceView, access.IsStaff(actor)),
		UploadURL:           u.UploadURL,
	}
}

func studentResourceDTO(v service.ResourceView) dto.StudentResourceDTO {
	return dto.StudentResourceDTO{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		CohortName:  v.CohortName,
		Kind:        string(v.Kind),
		FileURL:     v.FileURL,
		CanAccess:   v.CanAccess,
		CreatedAt:   v.CreatedAt,
	}
}

func studentDTO(s model.Student) dto.StudentResponseDTO {
	return dto.StudentResponseDTO{
		ID:              s.ID,
		AccountID:       s.AccountID,
		Username:        s.Username,
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		EnrollmentCount: s.EnrollmentCount,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func enrollmentDTO(e model.Enrollment) dto.EnrollmentResponseDTO {
	return dto.EnrollmentResponseDTO{
		ID:          e.ID,
		StudentID:   e.StudentID,
		StudentName: e.StudentName,
		CohortID:    e.CohortID,
		CohortName:  e.CohortName,
		CourseName:  e.CourseName,
		EnrolledAt:  e.EnrolledAt,
	}
}

func accountDTO(a model.Account) dto.AccountResponseDTO {
	out := dto.AccountResponseDTO{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    a.FullName(),
		IsAdmin:     a.IsAdmin,
		IsSuperuser: a.IsSuperuser,
		IsActive:    a.IsActive,
		LastLogin:   a.LastLogin,
		CreatedAt:   a.CreatedAt,
	}
	if a.IsAdmin {
		out.AccessLevel = a.AccessLevel()
	}
	return out
}

func roleOf(actor access.Actor) string {
	switch actor.(type) {
	case access.Superuser:
		return "superuser"
	case access.Admin:
		return "admin"
	case access.Student:
		return "student"
	default:
		return ""
	}
}

func meDTO(s *service.Session) dto.MeResponseDTO {
	out := dto.MeResponseDTO{
		Role:    roleOf(s.Actor),
		Account: accountDTO(*s.Account),
	}
	if s.Student != nil {
		st := studentDTO(*s.Student)
		out.Student = &st
	}
	return out
}
