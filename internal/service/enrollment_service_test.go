package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/pubsub"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldMessages(t *testing.T, err error, field string) []string {
	t.Helper()
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr.Fields[field]
}

func TestCreateEnrollment(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	course := db.seedCourse(t, "Go Backend")
	cohort := db.seedCohort(t, course.ID, "Turma Janeiro", "2025-01-10")
	maria := db.seedStudent(t, "maria", "Maria Souza", "maria@example.com", "student-pass")
	events := &recordingEmitter{}
	svc := NewEnrollmentService(db, db, db, events, nopLogger)

	e, err := svc.CreateEnrollment(ctx, anyAdmin, EnrollmentParams{StudentID: " " + maria.ID + " ", CohortID: cohort.ID})
	require.NoError(t, err)
	assert.Equal(t, maria.ID, e.StudentID)
	assert.Equal(t, []string{pubsub.EventEnrollmentCreated}, events.types())

	t.Run("duplicate is a cohort_id error", func(t *testing.T) {
		_, err := svc.CreateEnrollment(ctx, anyAdmin, EnrollmentParams{StudentID: maria.ID, CohortID: cohort.ID})
		assert.Equal(t, []string{msgAlreadyEnrolled}, fieldMessages(t, err, "cohort_id"))
	})

	t.Run("race on the unique constraint maps to the same error", func(t *testing.T) {
		db.skipExistsCheck = true
		defer func() { db.skipExistsCheck = false }()
		_, err := svc.CreateEnrollment(ctx, anyAdmin, EnrollmentParams{StudentID: maria.ID, CohortID: cohort.ID})
		assert.Equal(t, []string{msgAlreadyEnrolled}, fieldMessages(t, err, "cohort_id"))
	})

	t.Run("references must exist", func(t *testing.T) {
		_, err := svc.CreateEnrollment(ctx, anyAdmin, EnrollmentParams{StudentID: "bogus"})
		assert.Equal(t, []string{msgNotFound}, fieldMessages(t, err, "student_id"))
		assert.Equal(t, []string{msgRequired}, fieldMessages(t, err, "cohort_id"))
	})

	t.Run("students cannot enroll", func(t *testing.T) {
		actor := access.Student{AccountID: maria.AccountID, StudentID: maria.ID}
		_, err := svc.CreateEnrollment(ctx, actor, EnrollmentParams{StudentID: maria.ID, CohortID: cohort.ID})
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	assert.Len(t, db.enrollments, 1)
	assert.Len(t, events.events, 1)
}

func TestEnrollmentReads(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	course := db.seedCourse(t, "Go Backend")
	cohort := db.seedCohort(t, course.ID, "Turma Janeiro", "2025-01-10")
	maria := db.seedStudent(t, "maria", "Maria Souza", "maria@example.com", "student-pass")
	pedro := db.seedStudent(t, "pedro", "Pedro Lima", "pedro@example.com", "student-pass")
	db.seedEnrollment(t, maria.ID, cohort.ID)
	db.seedEnrollment(t, pedro.ID, cohort.ID)
	svc := NewEnrollmentService(db, db, db, pubsub.NoopEmitter{}, nopLogger)
	asMaria := access.Student{AccountID: maria.AccountID, StudentID: maria.ID}

	t.Run("students list only their own", func(t *testing.T) {
		items, total, err := svc.ListEnrollments(ctx, asMaria, repository.EnrollmentFilter{StudentID: pedro.ID}, repository.Page{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, maria.ID, items[0].StudentID)
	})

	t.Run("admins list everything", func(t *testing.T) {
		_, total, err := svc.ListEnrollments(ctx, anyAdmin, repository.EnrollmentFilter{}, repository.Page{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("another student's enrollment is forbidden", func(t *testing.T) {
		var pedros string
		for _, e := range db.enrollments {
			if e.StudentID == pedro.ID {
				pedros = e.ID
			}
		}
		_, err := svc.GetEnrollment(ctx, asMaria, pedros)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("moving to a cohort the student is already in is rejected", func(t *testing.T) {
		other := db.seedCohort(t, course.ID, "Turma Março", "2025-03-01")
		db.seedEnrollment(t, maria.ID, other.ID)
		first := db.enrollments[0]
		_, err := svc.UpdateEnrollment(ctx, anyAdmin, first.ID, EnrollmentParams{StudentID: maria.ID, CohortID: other.ID})
		assert.Equal(t, []string{msgAlreadyEnrolled}, fieldMessages(t, err, "cohort_id"))

		_, err = svc.UpdateEnrollment(ctx, anyAdmin, first.ID, EnrollmentParams{StudentID: maria.ID, CohortID: cohort.ID})
		assert.NoError(t, err)
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		id := db.enrollments[0].ID
		require.NoError(t, svc.DeleteEnrollment(ctx, anyAdmin, id))
		_, err := svc.GetEnrollment(ctx, anyAdmin, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
