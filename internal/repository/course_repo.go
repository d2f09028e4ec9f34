package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Elias-Front-end/management-system/internal/model"
)

// CourseFilter narrows course listings.
type CourseFilter struct {
	Search string
}

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	ListCourses(ctx context.Context, f CourseFilter, page Page) ([]model.Course, int, error)
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	UpdateCourse(ctx context.Context, c *model.Course) error
	// DeleteCourse removes the course; cohorts, resources and enrollments cascade.
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) ListCourses(ctx context.Context, f CourseFilter, page Page) ([]model.Course, int, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, COUNT(*) OVER() AS total
		FROM courses
		WHERE 1=1
	`
	args := []any{}
	argCount := 1

	if f.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d ESCAPE '\\' OR description ILIKE $%d ESCAPE '\\')", argCount, argCount)
		args = append(args, searchPattern(f.Search))
		argCount++
	}

	query += " ORDER BY created_at DESC, id"
	unpaged, unpagedArgs := query, args
	query, args = page.apply(query, args, argCount)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	total := 0
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating course rows: %w", err)
	}
	total, err = countPastEnd(ctx, r.db, page, len(courses), total, unpaged, unpagedArgs)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// GetCourseByID returns nil, nil when the course does not exist.
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var c model.Course
	err := r.db.QueryRowContext(ctx, query, courseID).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying course %s: %w", courseID, err)
	}
	return &c, nil
}

func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting course: %w", translate(err))
	}
	return nil
}

func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating course %s: %w", c.ID, translate(err))
	}
	return nil
}

func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("deleting course %s: %w", courseID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("deleting course %s: %w", courseID, err)
	}
	return nil
}
