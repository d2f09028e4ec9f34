package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Elias-Front-end/management-system/internal/model"
)

// ResourceFilter narrows resource listings. Empty fields are ignored.
type ResourceFilter struct {
	CohortID string
	// CourseID matches resources attached to the course directly or through one of its cohorts.
	CourseID string
	// StudentID keeps resources of cohorts the student is enrolled in.
	StudentID     string
	Kind          model.ResourceKind
	Search        string
	PublishedOnly bool
}

type ResourceRepository interface {
	ListResources(ctx context.Context, f ResourceFilter, page Page) ([]model.Resource, int, error)
	GetResourceByID(ctx context.Context, resourceID string) (*model.Resource, error)
	CreateResource(ctx context.Context, res *model.Resource) error
	UpdateResource(ctx context.Context, res *model.Resource) error
	DeleteResource(ctx context.Context, resourceID string) error
}

type resourceRepo struct {
	db *sql.DB
}

func NewResourceRepo(db *sql.DB) ResourceRepository {
	return &resourceRepo{db: db}
}

const resourceSelect = `
	SELECT r.id, r.cohort_id, r.course_id, r.kind, r.name, r.description, r.file_name, r.file_key,
		r.early_access, r.draft, r.created_at, r.updated_at,
		COALESCE(ch.name, ''), ch.start_date, COALESCE(co.name, '')`

const resourceFrom = `
	FROM resources r
	LEFT JOIN cohorts ch ON ch.id = r.cohort_id
	LEFT JOIN courses co ON co.id = COALESCE(r.course_id, ch.course_id)`

func scanResource(s scanner, res *model.Resource, extra ...any) error {
	dest := []any{
		&res.ID, &res.CohortID, &res.CourseID, &res.Kind, &res.Name, &res.Description, &res.FileName, &res.FileKey,
		&res.EarlyAccess, &res.Draft, &res.CreatedAt, &res.UpdatedAt,
		&res.CohortName, &res.CohortStartDate, &res.CourseName,
	}
	return s.Scan(append(dest, extra...)...)
}

// ListResources orders by newest first with id as tie-breaker so repeated calls are stable.
func (r *resourceRepo) ListResources(ctx context.Context, f ResourceFilter, page Page) ([]model.Resource, int, error) {
	query := resourceSelect + `, COUNT(*) OVER() AS total` + resourceFrom + `
		WHERE 1=1
	`
	args := []any{}
	argCount := 1

	if f.CohortID != "" {
		query += fmt.Sprintf(" AND r.cohort_id = $%d", argCount)
		args = append(args, f.CohortID)
		argCount++
	}
	if f.CourseID != "" {
		query += fmt.Sprintf(" AND (r.course_id = $%d OR ch.course_id = $%d)", argCount, argCount)
		args = append(args, f.CourseID)
		argCount++
	}
	if f.StudentID != "" {
		query += fmt.Sprintf(" AND r.cohort_id IN (SELECT cohort_id FROM enrollments WHERE student_id = $%d)", argCount)
		args = append(args, f.StudentID)
		argCount++
	}
	if f.Kind != "" {
		query += fmt.Sprintf(" AND r.kind = $%d", argCount)
		args = append(args, string(f.Kind))
		argCount++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (r.name ILIKE $%d ESCAPE '\\' OR r.description ILIKE $%d ESCAPE '\\')", argCount, argCount)
		args = append(args, searchPattern(f.Search))
		argCount++
	}
	if f.PublishedOnly {
		query += " AND r.draft = FALSE"
	}

	query += " ORDER BY r.created_at DESC, r.id"
	unpaged, unpagedArgs := query, args
	query, args = page.apply(query, args, argCount)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	total := 0
	for rows.Next() {
		var res model.Resource
		if err := scanResource(rows, &res, &total); err != nil {
			return nil, 0, fmt.Errorf("scanning resource row: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating resource rows: %w", err)
	}
	total, err = countPastEnd(ctx, r.db, page, len(resources), total, unpaged, unpagedArgs)
	if err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// GetResourceByID returns nil, nil when the resource does not exist.
func (r *resourceRepo) GetResourceByID(ctx context.Context, resourceID string) (*model.Resource, error) {
	query := resourceSelect + resourceFrom + `
		WHERE r.id = $1
	`
	var res model.Resource
	err := scanResource(r.db.QueryRowContext(ctx, query, resourceID), &res)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying resource %s: %w", resourceID, err)
	}
	return &res, nil
}

// CreateResource inserts res. A preset ID is kept so file keys can be derived before the insert.
func (r *resourceRepo) CreateResource(ctx context.Context, res *model.Resource) error {
	query := `
		INSERT INTO resources (id, cohort_id, course_id, kind, name, description, file_name, file_key, early_access, draft)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		res.ID, res.CohortID, res.CourseID, string(res.Kind), res.Name, res.Description,
		res.FileName, res.FileKey, res.EarlyAccess, res.Draft,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting resource: %w", translate(err))
	}
	return nil
}

func (r *resourceRepo) UpdateResource(ctx context.Context, res *model.Resource) error {
	query := `
		UPDATE resources
		SET cohort_id = $1, course_id = $2, kind = $3, name = $4, description = $5,
			file_name = $6, file_key = $7, early_access = $8, draft = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		res.CohortID, res.CourseID, string(res.Kind), res.Name, res.Description,
		res.FileName, res.FileKey, res.EarlyAccess, res.Draft, res.ID,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating resource %s: %w", res.ID, translate(err))
	}
	return nil
}

func (r *resourceRepo) DeleteResource(ctx context.Context, resourceID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, resourceID)
	if err != nil {
		return fmt.Errorf("deleting resource %s: %w", resourceID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("deleting resource %s: %w", resourceID, err)
	}
	return nil
}
