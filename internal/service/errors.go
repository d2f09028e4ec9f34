package service

import (
	"errors"
	"fmt"

	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned when no account matches the login pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRoleMismatch is returned when valid credentials belong to a different profile type.
	ErrRoleMismatch = errors.New("role mismatch")
)

const (
	msgRequired        = "this field is required"
	msgNotFound        = "no record with this id exists"
	msgAlreadyEnrolled = "this student is already enrolled in this cohort"
	msgEmailTaken      = "a student with this email already exists"
	msgUsernameTaken   = "a user with that username already exists"
	msgNameTooShort    = "name must be at least 3 characters"
	msgPasswordShort   = "password must be at least 8 characters"
	msgAccessLevel     = "access_level must be admin or superadmin"
	msgProfileType     = "profile_type must be admin or student"
)

type fieldMessage struct {
	field string
	msg   string
}

// Storage constraints surfaced as the same field errors the pre-checks produce.
var constraintFields = map[string]fieldMessage{
	repository.ConstraintEnrollmentUnique: {"cohort_id", msgAlreadyEnrolled},
	repository.ConstraintStudentEmail:     {"email", msgEmailTaken},
	repository.ConstraintAccountUsername:  {"username", msgUsernameTaken},
	"cohorts_dates_check":                 {"end_date", "end date must be after the start date"},
	"cohorts_course_id_fkey":              {"course_id", msgNotFound},
	"resources_cohort_id_fkey":            {"cohort_id", msgNotFound},
	"resources_course_id_fkey":            {"course_id", msgNotFound},
	"resources_owner_check":               {"cohort_id", "a resource belongs to either a cohort or a course, not both"},
	"resources_early_access_draft_check":  {"draft", "a draft resource cannot have early access"},
	"enrollments_student_id_fkey":         {"student_id", msgNotFound},
	"enrollments_cohort_id_fkey":          {"cohort_id", msgNotFound},
}

// storageError converts repository errors into service errors.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var cerr *repository.ConstraintError
	if errors.As(err, &cerr) {
		if fm, ok := constraintFields[cerr.Constraint]; ok {
			return model.FieldError(fm.field, fm.msg)
		}
	}
	return err
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// validID reports whether id can address a stored record.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
