package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Elias-Front-end/management-system/internal/model"
)

// EnrollmentFilter narrows enrollment listings. Empty fields are ignored.
type EnrollmentFilter struct {
	StudentID string
	CohortID  string
}

// Constraint names the service maps to field errors.
const (
	ConstraintEnrollmentUnique = "enrollments_student_cohort_key"
	ConstraintStudentEmail     = "students_email_key"
	ConstraintAccountUsername  = "accounts_username_key"
)

type EnrollmentRepository interface {
	ListEnrollments(ctx context.Context, f EnrollmentFilter, page Page) ([]model.Enrollment, int, error)
	GetEnrollmentByID(ctx context.Context, enrollmentID string) (*model.Enrollment, error)
	EnrollmentExists(ctx context.Context, studentID, cohortID, excludeID string) (bool, error)
	CreateEnrollment(ctx context.Context, e *model.Enrollment) error
	UpdateEnrollment(ctx context.Context, e *model.Enrollment) error
	DeleteEnrollment(ctx context.Context, enrollmentID string) error
}

type enrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

const enrollmentSelect = `
	SELECT e.id, e.student_id, e.cohort_id, e.enrolled_at, s.name, ch.name, co.name`

const enrollmentFrom = `
	FROM enrollments e
	JOIN students s ON s.id = e.student_id
	JOIN cohorts ch ON ch.id = e.cohort_id
	JOIN courses co ON co.id = ch.course_id`

func scanEnrollment(s scanner, e *model.Enrollment, extra ...any) error {
	dest := []any{&e.ID, &e.StudentID, &e.CohortID, &e.EnrolledAt, &e.StudentName, &e.CohortName, &e.CourseName}
	return s.Scan(append(dest, extra...)...)
}

func (r *enrollmentRepo) ListEnrollments(ctx context.Context, f EnrollmentFilter, page Page) ([]model.Enrollment, int, error) {
	query := enrollmentSelect + `, COUNT(*) OVER() AS total` + enrollmentFrom + `
		WHERE 1=1
	`
	args := []any{}
	argCount := 1

	if f.StudentID != "" {
		query += fmt.Sprintf(" AND e.student_id = $%d", argCount)
		args = append(args, f.StudentID)
		argCount++
	}
	if f.CohortID != "" {
		query += fmt.Sprintf(" AND e.cohort_id = $%d", argCount)
		args = append(args, f.CohortID)
		argCount++
	}

	query += " ORDER BY e.enrolled_at DESC, e.id"
	unpaged, unpagedArgs := query, args
	query, args = page.apply(query, args, argCount)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	total := 0
	for rows.Next() {
		var e model.Enrollment
		if err := scanEnrollment(rows, &e, &total); err != nil {
			return nil, 0, fmt.Errorf("scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating enrollment rows: %w", err)
	}
	total, err = countPastEnd(ctx, r.db, page, len(enrollments), total, unpaged, unpagedArgs)
	if err != nil {
		return nil, 0, err
	}
	return enrollments, total, nil
}

// GetEnrollmentByID returns nil, nil when the enrollment does not exist.
func (r *enrollmentRepo) GetEnrollmentByID(ctx context.Context, enrollmentID string) (*model.Enrollment, error) {
	query := enrollmentSelect + enrollmentFrom + `
		WHERE e.id = $1
	`
	var e model.Enrollment
	err := scanEnrollment(r.db.QueryRowContext(ctx, query, enrollmentID), &e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying enrollment %s: %w", enrollmentID, err)
	}
	return &e, nil
}

func (r *enrollmentRepo) EnrollmentExists(ctx context.Context, studentID, cohortID, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND cohort_id = $2 AND id::text <> $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, studentID, cohortID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking enrollment: %w", err)
	}
	return exists, nil
}

func (r *enrollmentRepo) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, cohort_id)
		VALUES ($1, $2)
		RETURNING id, enrolled_at
	`
	if err := r.db.QueryRowContext(ctx, query, e.StudentID, e.CohortID).Scan(&e.ID, &e.EnrolledAt); err != nil {
		return fmt.Errorf("inserting enrollment: %w", translate(err))
	}
	return nil
}

func (r *enrollmentRepo) UpdateEnrollment(ctx context.Context, e *model.Enrollment) error {
	query := `
		UPDATE enrollments
		SET student_id = $1, cohort_id = $2
		WHERE id = $3
		RETURNING enrolled_at
	`
	if err := r.db.QueryRowContext(ctx, query, e.StudentID, e.CohortID, e.ID).Scan(&e.EnrolledAt); err != nil {
		return fmt.Errorf("updating enrollment %s: %w", e.ID, translate(err))
	}
	return nil
}

func (r *enrollmentRepo) DeleteEnrollment(ctx context.Context, enrollmentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, enrollmentID)
	if err != nil {
		return fmt.Errorf("deleting enrollment %s: %w", enrollmentID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("deleting enrollment %s: %w", enrollmentID, err)
	}
	return nil
}
