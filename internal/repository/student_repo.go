package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Elias-Front-end/management-system/internal/model"
)

// StudentFilter narrows student listings. Empty fields are ignored.
type StudentFilter struct {
	// ID restricts the listing to a single profile.
	ID       string
	CohortID string
	Search   string
}

type StudentRepository interface {
	ListStudents(ctx context.Context, f StudentFilter, page Page) ([]model.Student, int, error)
	GetStudentByID(ctx context.Context, studentID string) (*model.Student, error)
	GetStudentByAccountID(ctx context.Context, accountID string) (*model.Student, error)
	// FindStudentsByName matches the display name case-insensitively and exactly.
	FindStudentsByName(ctx context.Context, name string) ([]model.Student, error)
	EmailExists(ctx context.Context, email, excludeStudentID string) (bool, error)
	// CreateStudent inserts the account and the profile in one transaction.
	CreateStudent(ctx context.Context, a *model.Account, s *model.Student) error
	// UpdateStudent updates the account and the profile in one transaction.
	UpdateStudent(ctx context.Context, a *model.Account, s *model.Student) error
	// DeleteStudent removes the profile together with its account.
	DeleteStudent(ctx context.Context, studentID string) error
}

type studentRepo struct {
	db *sql.DB
}

func NewStudentRepo(db *sql.DB) StudentRepository {
	return &studentRepo{db: db}
}

const studentColumns = `
	s.id, s.account_id, s.name, s.email, s.phone, s.created_at, s.updated_at, a.username,
	(SELECT COUNT(*) FROM enrollments e WHERE e.student_id = s.id) AS enrollment_count`

func scanStudent(sc scanner, s *model.Student, extra ...any) error {
	dest := []any{
		&s.ID, &s.AccountID, &s.Name, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt, &s.Username,
		&s.EnrollmentCount,
	}
	return sc.Scan(append(dest, extra...)...)
}

func (r *studentRepo) query(ctx context.Context, query string, args ...any) ([]model.Student, int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying students: %w", err)
	}
	defer rows.Close()

	students := []model.Student{}
	total := 0
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s, &total); err != nil {
			return nil, 0, fmt.Errorf("scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating student rows: %w", err)
	}
	return students, total, nil
}

func (r *studentRepo) ListStudents(ctx context.Context, f StudentFilter, page Page) ([]model.Student, int, error) {
	query := `
		SELECT ` + studentColumns + `, COUNT(*) OVER() AS total
		FROM students s
		JOIN accounts a ON a.id = s.account_id
		WHERE 1=1
	`
	args := []any{}
	argCount := 1

	if f.ID != "" {
		query += fmt.Sprintf(" AND s.id = $%d", argCount)
		args = append(args, f.ID)
		argCount++
	}
	if f.CohortID != "" {
		query += fmt.Sprintf(" AND s.id IN (SELECT student_id FROM enrollments WHERE cohort_id = $%d)", argCount)
		args = append(args, f.CohortID)
		argCount++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (s.name ILIKE $%d ESCAPE '\\' OR s.email ILIKE $%d ESCAPE '\\')", argCount, argCount)
		args = append(args, searchPattern(f.Search))
		argCount++
	}

	query += " ORDER BY s.name, s.id"
	unpaged, unpagedArgs := query, args
	query, args = page.apply(query, args, argCount)
	students, total, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err = countPastEnd(ctx, r.db, page, len(students), total, unpaged, unpagedArgs)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *studentRepo) getOne(ctx context.Context, where string, arg any) (*model.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students s
		JOIN accounts a ON a.id = s.account_id
		WHERE ` + where
	var s model.Student
	err := scanStudent(r.db.QueryRowContext(ctx, query, arg), &s)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStudentByID returns nil, nil when the profile does not exist.
func (r *studentRepo) GetStudentByID(ctx context.Context, studentID string) (*model.Student, error) {
	s, err := r.getOne(ctx, "s.id = $1", studentID)
	if err != nil {
		return nil, fmt.Errorf("querying student %s: %w", studentID, err)
	}
	return s, nil
}

// GetStudentByAccountID returns nil, nil when the account has no profile.
func (r *studentRepo) GetStudentByAccountID(ctx context.Context, accountID string) (*model.Student, error) {
	s, err := r.getOne(ctx, "s.account_id = $1", accountID)
	if err != nil {
		return nil, fmt.Errorf("querying student for account %s: %w", accountID, err)
	}
	return s, nil
}

func (r *studentRepo) FindStudentsByName(ctx context.Context, name string) ([]model.Student, error) {
	query := `
		SELECT ` + studentColumns + `, COUNT(*) OVER() AS total
		FROM students s
		JOIN accounts a ON a.id = s.account_id
		WHERE LOWER(s.name) = LOWER($1)
		ORDER BY s.id
		LIMIT 2
	`
	students, _, err := r.query(ctx, query, name)
	return students, err
}

func (r *studentRepo) EmailExists(ctx context.Context, email, excludeStudentID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM students WHERE LOWER(email) = LOWER($1) AND id::text <> $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeStudentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking student email: %w", err)
	}
	return exists, nil
}

func (r *studentRepo) CreateStudent(ctx context.Context, a *model.Account, s *model.Student) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting student transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAccount(ctx, tx, a); err != nil {
		return err
	}

	query := `
		INSERT INTO students (account_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	s.AccountID = a.ID
	if err := tx.QueryRowContext(ctx, query, s.AccountID, s.Name, s.Email, s.Phone).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("inserting student: %w", translate(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing student: %w", err)
	}
	s.Username = a.Username
	return nil
}

func (r *studentRepo) UpdateStudent(ctx context.Context, a *model.Account, s *model.Student) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting student transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateAccount(ctx, tx, a); err != nil {
		return err
	}

	query := `
		UPDATE students
		SET name = $1, email = $2, phone = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, query, s.Name, s.Email, s.Phone, s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("updating student %s: %w", s.ID, translate(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing student %s: %w", s.ID, err)
	}
	s.Username = a.Username
	return nil
}

func (r *studentRepo) DeleteStudent(ctx context.Context, studentID string) error {
	query := `DELETE FROM accounts WHERE id = (SELECT account_id FROM students WHERE id = $1)`
	res, err := r.db.ExecContext(ctx, query, studentID)
	if err != nil {
		return fmt.Errorf("deleting student %s: %w", studentID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("deleting student %s: %w", studentID, err)
	}
	return nil
}
