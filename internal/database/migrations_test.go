package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreOrdered(t *testing.T) {
	migrations := Migrations()
	require.NotEmpty(t, migrations)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.Description)
		assert.NotEmpty(t, m.SQL)
	}
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only pending migrations", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied := sqlmock.NewRows([]string{"version"})
		all := Migrations()
		for _, m := range all[:len(all)-1] {
			applied.AddRow(m.Version)
		}
		mock.ExpectQuery("SELECT version FROM schema_migrations").WillReturnRows(applied)

		last := all[len(all)-1]
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS students")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").
			WithArgs(last.Version, last.Description).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, Migrate(ctx, db, zerolog.Nop()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back a failing migration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pgcrypto").
			WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		err = Migrate(ctx, db, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "executing migration 1")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAppendParam(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db?sslmode=disable", appendParam("postgres://u@h/db", "sslmode=disable"))
	assert.Equal(t, "postgres://u@h/db?x=1&sslmode=disable", appendParam("postgres://u@h/db?x=1", "sslmode=disable"))
	assert.Equal(t, "host=h dbname=db sslmode=disable", appendParam("host=h dbname=db", "sslmode=disable"))
}
