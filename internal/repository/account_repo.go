package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Elias-Front-end/management-system/internal/model"
)

// AccountRepository stores credentials and role flags.
type AccountRepository interface {
	GetAccountByID(ctx context.Context, accountID string) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	UsernameExists(ctx context.Context, username, excludeAccountID string) (bool, error)
	ListAdmins(ctx context.Context, page Page) ([]model.Account, int, error)
	AdminStats(ctx context.Context) (model.AdminStats, error)
	CountSuperusers(ctx context.Context) (int, error)
	CreateAccount(ctx context.Context, a *model.Account) error
	UpdateAccount(ctx context.Context, a *model.Account) error
	SetPassword(ctx context.Context, accountID, passwordHash string) error
	TouchLastLogin(ctx context.Context, accountID string, at time.Time) error
	// DeleteAccount removes the account; a linked student profile cascades.
	DeleteAccount(ctx context.Context, accountID string) error
}

type accountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) AccountRepository {
	return &accountRepo{db: db}
}

const accountColumns = `
	id, username, email, first_name, last_name, password_hash,
	is_admin, is_superuser, is_active, last_login, created_at, updated_at`

func scanAccount(s scanner, a *model.Account, extra ...any) error {
	dest := []any{
		&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash,
		&a.IsAdmin, &a.IsSuperuser, &a.IsActive, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt,
	}
	return s.Scan(append(dest, extra...)...)
}

func (r *accountRepo) getOne(ctx context.Context, where string, arg any) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	var a model.Account
	err := scanAccount(r.db.QueryRowContext(ctx, query, arg), &a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccountByID returns nil, nil when the account does not exist.
func (r *accountRepo) GetAccountByID(ctx context.Context, accountID string) (*model.Account, error) {
	a, err := r.getOne(ctx, "id = $1", accountID)
	if err != nil {
		return nil, fmt.Errorf("querying account %s: %w", accountID, err)
	}
	return a, nil
}

// GetAccountByUsername matches the username exactly.
func (r *accountRepo) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	a, err := r.getOne(ctx, "username = $1", username)
	if err != nil {
		return nil, fmt.Errorf("querying account by username: %w", err)
	}
	return a, nil
}

func (r *accountRepo) UsernameExists(ctx context.Context, username, excludeAccountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1 AND id::text <> $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, excludeAccountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return exists, nil
}

// ListAdmins returns staff accounts, newest first.
func (r *accountRepo) ListAdmins(ctx context.Context, page Page) ([]model.Account, int, error) {
	query := `SELECT ` + accountColumns + `, COUNT(*) OVER() AS total
		FROM accounts
		WHERE is_admin = TRUE
		ORDER BY created_at DESC, id`
	unpaged := query
	query, args := page.apply(query, nil, 1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying admin accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	total := 0
	for rows.Next() {
		var a model.Account
		if err := scanAccount(rows, &a, &total); err != nil {
			return nil, 0, fmt.Errorf("scanning account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating account rows: %w", err)
	}
	total, err = countPastEnd(ctx, r.db, page, len(accounts), total, unpaged, nil)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *accountRepo) AdminStats(ctx context.Context) (model.AdminStats, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_superuser)
		FROM accounts
		WHERE is_admin = TRUE
	`
	var stats model.AdminStats
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalAdmins, &stats.SuperAdmins); err != nil {
		return stats, fmt.Errorf("querying admin stats: %w", err)
	}
	stats.RegularAdmins = stats.TotalAdmins - stats.SuperAdmins
	return stats, nil
}

func (r *accountRepo) CountSuperusers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE is_superuser = TRUE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting superusers: %w", err)
	}
	return n, nil
}

func (r *accountRepo) CreateAccount(ctx context.Context, a *model.Account) error {
	return insertAccount(ctx, r.db, a)
}

func (r *accountRepo) UpdateAccount(ctx context.Context, a *model.Account) error {
	return updateAccount(ctx, r.db, a)
}

func (r *accountRepo) SetPassword(ctx context.Context, accountID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, accountID,
	)
	if err != nil {
		return fmt.Errorf("setting password for account %s: %w", accountID, err)
	}
	return expectAffected(res)
}

func (r *accountRepo) TouchLastLogin(ctx context.Context, accountID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET last_login = $1 WHERE id = $2`, at, accountID)
	if err != nil {
		return fmt.Errorf("updating last login for account %s: %w", accountID, err)
	}
	return nil
}

func (r *accountRepo) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("deleting account %s: %w", accountID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("deleting account %s: %w", accountID, err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAccount(ctx context.Context, db execer, a *model.Account) error {
	query := `
		INSERT INTO accounts (username, email, first_name, last_name, password_hash, is_admin, is_superuser, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`
	err := db.QueryRowContext(ctx, query,
		a.Username, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.IsAdmin, a.IsSuperuser,
	).Scan(&a.ID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting account: %w", translate(err))
	}
	return nil
}

func updateAccount(ctx context.Context, db execer, a *model.Account) error {
	query := `
		UPDATE accounts
		SET username = $1, email = $2, first_name = $3, last_name = $4, password_hash = $5,
			is_admin = $6, is_superuser = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING created_at, updated_at
	`
	err := db.QueryRowContext(ctx, query,
		a.Username, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.IsAdmin, a.IsSuperuser, a.ID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating account %s: %w", a.ID, translate(err))
	}
	return nil
}
