// Package access decides who may do what. Actors are resolved once per request
// from stored account state and passed explicitly to every decision.
package access

import "github.com/Elias-Front-end/management-system/internal/model"

// Actor is the authenticated party behind a request.
// The set of implementations is closed: Anonymous, Admin, Superuser, Student.
type Actor interface {
	isActor()
}

// Anonymous is a request without a valid session.
type Anonymous struct{}

// Admin is a staff account without superuser rights.
type Admin struct {
	AccountID string
}

// Superuser is a staff account that also manages admin accounts.
type Superuser struct {
	AccountID string
}

// Student is a non-admin account linked to a student profile.
type Student struct {
	AccountID string
	StudentID string
}

func (Anonymous) isActor() {}
func (Admin) isActor()     {}
func (Superuser) isActor() {}
func (Student) isActor()   {}

// ActorFor maps an account and its optional student profile to an Actor.
// Accounts that are neither staff nor linked to a profile resolve to Anonymous.
func ActorFor(account *model.Account, student *model.Student) Actor {
	switch {
	case account == nil || !account.IsActive:
		return Anonymous{}
	case account.IsSuperuser:
		return Superuser{AccountID: account.ID}
	case account.IsAdmin:
		return Admin{AccountID: account.ID}
	case student != nil:
		return Student{AccountID: account.ID, StudentID: student.ID}
	default:
		return Anonymous{}
	}
}

// IsStaff reports whether actor may manage catalog data.
func IsStaff(actor Actor) bool {
	switch actor.(type) {
	case Admin, Superuser:
		return true
	default:
		return false
	}
}

// IsAuthenticated reports whether actor is anything but Anonymous.
func IsAuthenticated(actor Actor) bool {
	switch actor.(type) {
	case Admin, Superuser, Student:
		return true
	default:
		return false
	}
}

// AccountID returns the account behind actor, or "" for Anonymous.
func AccountID(actor Actor) string {
	switch a := actor.(type) {
	case Admin:
		return a.AccountID
	case Superuser:
		return a.AccountID
	case Student:
		return a.AccountID
	default:
		return ""
	}
}

// StudentID returns the linked profile id when actor is a Student.
func StudentID(actor Actor) (string, bool) {
	if s, ok := actor.(Student); ok {
		return s.StudentID, true
	}
	return "", false
}
