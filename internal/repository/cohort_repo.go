package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Elias-Front-end/management-system/internal/model"
)

// CohortFilter narrows cohort listings. Empty fields are ignored.
type CohortFilter struct {
	CourseID  string
	StudentID string
	Search    string
}

type CohortRepository interface {
	ListCohorts(ctx context.Context, f CohortFilter, page Page) ([]model.Cohort, int, error)
	GetCohortByID(ctx context.Context, cohortID string) (*model.Cohort, error)
	CreateCohort(ctx context.Context, c *model.Cohort) error
	UpdateCohort(ctx context.Context, c *model.Cohort) error
	DeleteCohort(ctx context.Context, cohortID string) error
}

type cohortRepo struct {
	db *sql.DB
}

func NewCohortRepo(db *sql.DB) CohortRepository {
	return &cohortRepo{db: db}
}

const cohortColumns = `
	c.id, c.course_id, c.name, c.start_date, c.end_date, c.access_link, c.created_at, c.updated_at,
	co.name, co.description,
	(SELECT COUNT(*) FROM enrollments e WHERE e.cohort_id = c.id) AS student_count`

func scanCohort(s scanner, c *model.Cohort, extra ...any) error {
	dest := []any{
		&c.ID, &c.CourseID, &c.Name, &c.StartDate, &c.EndDate, &c.AccessLink, &c.CreatedAt, &c.UpdatedAt,
		&c.CourseName, &c.CourseDescription, &c.StudentCount,
	}
	return s.Scan(append(dest, extra...)...)
}

func (r *cohortRepo) ListCohorts(ctx context.Context, f CohortFilter, page Page) ([]model.Cohort, int, error) {
	query := `
		SELECT ` + cohortColumns + `, COUNT(*) OVER() AS total
		FROM cohorts c
		JOIN courses co ON co.id = c.course_id
		WHERE 1=1
	`
	args := []any{}
	argCount := 1

	if f.CourseID != "" {
		query += fmt.Sprintf(" AND c.course_id = $%d", argCount)
		args = append(args, f.CourseID)
		argCount++
	}
	if f.StudentID != "" {
		query += fmt.Sprintf(" AND c.id IN (SELECT cohort_id FROM enrollments WHERE student_id = $%d)", argCount)
		args = append(args, f.StudentID)
		argCount++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (c.name ILIKE $%d ESCAPE '\\' OR co.name ILIKE $%d ESCAPE '\\')", argCount, argCount)
		args = append(args, searchPattern(f.Search))
		argCount++
	}

	query += " ORDER BY c.start_date DESC, c.id"
	unpaged, unpagedArgs := query, args
	query, args = page.apply(query, args, argCount)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying cohorts: %w", err)
	}
	defer rows.Close()

	cohorts := []model.Cohort{}
	total := 0
	for rows.Next() {
		var c model.Cohort
		if err := scanCohort(rows, &c, &total); err != nil {
			return nil, 0, fmt.Errorf("scanning cohort row: %w", err)
		}
		cohorts = append(cohorts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating cohort rows: %w", err)
	}
	total, err = countPastEnd(ctx, r.db, page, len(cohorts), total, unpaged, unpagedArgs)
	if err != nil {
		return nil, 0, err
	}
	return cohorts, total, nil
}

// GetCohortByID returns nil, nil when the cohort does not exist.
func (r *cohortRepo) GetCohortByID(ctx context.Context, cohortID string) (*model.Cohort, error) {
	query := `
		SELECT ` + cohortColumns + `
		FROM cohorts c
		JOIN courses co ON co.id = c.course_id
		WHERE c.id = $1
	`
	var c model.Cohort
	err := scanCohort(r.db.QueryRowContext(ctx, query, cohortID), &c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cohort %s: %w", cohortID, err)
	}
	return &c, nil
}

func (r *cohortRepo) CreateCohort(ctx context.Context, c *model.Cohort) error {
	query := `
		INSERT INTO cohorts (course_id, name, start_date, end_date, access_link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.CourseID, c.Name, c.StartDate, c.EndDate, c.AccessLink).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting cohort: %w", translate(err))
	}
	return nil
}

func (r *cohortRepo) UpdateCohort(ctx context.Context, c *model.Cohort) error {
	query := `
		UPDATE cohorts
		SET course_id = $1, name = $2, start_date = $3, end_date = $4, access_link = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.CourseID, c.Name, c.StartDate, c.EndDate, c.AccessLink, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating cohort %s: %w", c.ID, translate(err))
	}
	return nil
}

func (r *cohortRepo) DeleteCohort(ctx context.Context, cohortID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cohorts WHERE id = $1`, cohortID)
	if err != nil {
		return fmt.Errorf("deleting cohort %s: %w", cohortID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("deleting cohort %s: %w", cohortID, err)
	}
	return nil
}
