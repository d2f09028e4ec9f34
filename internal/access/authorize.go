package access

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no valid session backs the request.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrForbidden is returned when the actor is known but lacks the rights.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// DeniedError is a structured rejection from Authorize.
type DeniedError struct {
	Err    error
	Reason string
}

func (e *DeniedError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *DeniedError) Unwrap() error { return e.Err }

func unauthenticated() error {
	return &DeniedError{Err: ErrUnauthenticated, Reason: ErrUnauthenticated.Error()}
}

func forbidden(format string, args ...any) error {
	return &DeniedError{Err: ErrForbidden, Reason: fmt.Sprintf(format, args...)}
}

// Action is what the actor tries to do.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsWrite reports whether a mutates state.
func (a Action) IsWrite() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// Subject is what the action targets.
type Subject interface {
	isSubject()
}

// Entity targets a catalog collection or one of its members.
type Entity string

const (
	EntityCourse     Entity = "course"
	EntityCohort     Entity = "cohort"
	EntityResource   Entity = "resource"
	EntityStudent    Entity = "student"
	EntityEnrollment Entity = "enrollment"
	// EntityAdminAccount targets the admin account collection as a whole (list, stats).
	EntityAdminAccount Entity = "admin_account"
)

// StudentScope targets data derived from one student's enrollments.
type StudentScope struct {
	StudentID string
}

// AdminAccount targets a single admin account.
type AdminAccount struct {
	AccountID   string
	IsSuperuser bool
	// SuperuserCount is the number of superusers currently stored.
	SuperuserCount int
	// Demote is set when an update removes superuser rights from the target.
	Demote bool
}

func (Entity) isSubject()       {}
func (StudentScope) isSubject() {}
func (AdminAccount) isSubject() {}

// Authenticated returns nil for any actor but Anonymous.
func Authenticated(actor Actor) error {
	if !IsAuthenticated(actor) {
		return unauthenticated()
	}
	return nil
}

// Authorize returns nil when actor may perform action on subject.
// Denials are *DeniedError wrapping ErrUnauthenticated or ErrForbidden.
func Authorize(actor Actor, action Action, subject Subject) error {
	if err := Authenticated(actor); err != nil {
		return err
	}

	switch s := subject.(type) {
	case Entity:
		return authorizeEntity(actor, action, s)
	case StudentScope:
		return authorizeStudentScope(actor, s)
	case AdminAccount:
		return authorizeAdminAccount(actor, action, s)
	default:
		return forbidden("unknown subject %T", subject)
	}
}

func authorizeEntity(actor Actor, action Action, entity Entity) error {
	if entity == EntityAdminAccount {
		if _, ok := actor.(Superuser); !ok {
			return forbidden("only superusers can manage admin accounts")
		}
		return nil
	}
	if action.IsWrite() && !IsStaff(actor) {
		return forbidden("only administrators can %s a %s", action, entity)
	}
	return nil
}

func authorizeStudentScope(actor Actor, scope StudentScope) error {
	switch a := actor.(type) {
	case Admin, Superuser:
		return nil
	case Student:
		if a.StudentID == scope.StudentID {
			return nil
		}
	}
	return forbidden("students can only access their own data")
}

func authorizeAdminAccount(actor Actor, action Action, target AdminAccount) error {
	su, ok := actor.(Superuser)
	if !ok {
		return forbidden("only superusers can manage admin accounts")
	}
	lastSuperuser := target.IsSuperuser && target.SuperuserCount <= 1

	switch action {
	case ActionDelete:
		if target.AccountID == su.AccountID {
			return forbidden("you cannot delete your own account")
		}
		if lastSuperuser {
			return forbidden("cannot delete the last superuser")
		}
	case ActionUpdate:
		if target.Demote && target.IsSuperuser {
			if target.AccountID == su.AccountID {
				return forbidden("you cannot remove your own superuser rights")
			}
			if lastSuperuser {
				return forbidden("cannot demote the last superuser")
			}
		}
	}
	return nil
}
