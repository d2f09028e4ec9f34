package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns the schema history in order.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create accounts table",
			SQL: `
				CREATE EXTENSION IF NOT EXISTS pgcrypto;

				CREATE TABLE IF NOT EXISTS accounts (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					username VARCHAR(150) NOT NULL,
					email VARCHAR(254) NOT NULL DEFAULT '',
					first_name VARCHAR(150) NOT NULL DEFAULT '',
					last_name VARCHAR(150) NOT NULL DEFAULT '',
					password_hash TEXT NOT NULL DEFAULT '',
					is_admin BOOLEAN NOT NULL DEFAULT FALSE,
					is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					last_login TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT accounts_username_key UNIQUE (username)
				);
			`,
		},
		{
			Version:     2,
			Description: "Create courses and cohorts tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS courses (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(200) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);

				CREATE TABLE IF NOT EXISTS cohorts (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
					name VARCHAR(200) NOT NULL,
					start_date DATE NOT NULL,
					end_date DATE NOT NULL,
					access_link TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT cohorts_dates_check CHECK (start_date < end_date)
				);

				CREATE INDEX IF NOT EXISTS idx_cohorts_course_id ON cohorts(course_id);
			`,
		},
		{
			Version:     3,
			Description: "Create resources table",
			SQL: `
				CREATE TABLE IF NOT EXISTS resources (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					cohort_id UUID REFERENCES cohorts(id) ON DELETE CASCADE,
					course_id UUID REFERENCES courses(id) ON DELETE CASCADE,
					kind VARCHAR(10) NOT NULL,
					name VARCHAR(200) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					file_name TEXT NOT NULL DEFAULT '',
					file_key TEXT NOT NULL DEFAULT '',
					early_access BOOLEAN NOT NULL DEFAULT FALSE,
					draft BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT resources_owner_check CHECK ((cohort_id IS NULL) <> (course_id IS NULL)),
					CONSTRAINT resources_early_access_draft_check CHECK (NOT (early_access AND draft)),
					CONSTRAINT resources_kind_check CHECK (kind IN ('video', 'pdf', 'zip'))
				);

				CREATE INDEX IF NOT EXISTS idx_resources_cohort_id ON resources(cohort_id);
				CREATE INDEX IF NOT EXISTS idx_resources_course_id ON resources(course_id);
			`,
		},
		{
			Version:     4,
			Description: "Create students and enrollments tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS students (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
					name VARCHAR(200) NOT NULL,
					email VARCHAR(254) NOT NULL,
					phone VARCHAR(20) NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT students_account_id_key UNIQUE (account_id),
					CONSTRAINT students_email_key UNIQUE (email)
				);

				CREATE INDEX IF NOT EXISTS idx_students_lower_name ON students(LOWER(name));

				CREATE TABLE IF NOT EXISTS enrollments (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
					cohort_id UUID NOT NULL REFERENCES cohorts(id) ON DELETE CASCADE,
					enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT enrollments_student_cohort_key UNIQUE (student_id, cohort_id)
				);

				CREATE INDEX IF NOT EXISTS idx_enrollments_cohort_id ON enrollments(cohort_id);
			`,
		},
	}
}

// Migrate applies every migration not yet recorded in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("querying applied migrations: %w", err)
	}
	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("scanning migration version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating migration versions: %w", err)
	}
	rows.Close()

	for _, m := range Migrations() {
		if applied[m.Version] {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return err
		}
		logger.Info().Int("version", m.Version).Str("description", m.Description).Msg("Migration applied")
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("executing migration %d: %w", m.Version, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description) VALUES ($1, $2)",
		m.Version, m.Description,
	); err != nil {
		return fmt.Errorf("recording migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", m.Version, err)
	}
	return nil
}
