// Package accounts provides the PostgreSQL-backed account repository.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account. A unique violation on email is reported as
// common.ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (id, full_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.FullName, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByEmail returns the account with the given email or common.ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, full_name, email, password_hash, image_path, created_at, updated_at
		FROM accounts WHERE email = $1
	`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// UpdateFields writes only the supplied columns in a single statement, so a
// concurrent write to another column is never overwritten. The image column
// is left alone; it is only written by SetImagePathIfEmpty.
func (r *PostgresRepository) UpdateFields(ctx context.Context, email string, p Patch) error {
	query := `
		UPDATE accounts SET full_name = COALESCE($1, full_name),
			password_hash = COALESCE($2, password_hash), updated_at = $3
		WHERE email = $4
	`
	res, err := r.db.ExecContext(ctx, query, nullString(p.FullName), nullString(p.PasswordHash), p.UpdatedAt, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// SetImagePathIfEmpty is a compare-and-set on image_path: the update applies
// only while the column is still NULL.
func (r *PostgresRepository) SetImagePathIfEmpty(ctx context.Context, email, path string, at time.Time) (bool, error) {
	query := `
		UPDATE accounts SET image_path = $1, updated_at = $2
		WHERE email = $3 AND image_path IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, path, at, email)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// DeleteByEmail removes the account and returns the deleted row, so the
// caller can release the bound image.
func (r *PostgresRepository) DeleteByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		DELETE FROM accounts WHERE email = $1
		RETURNING id, full_name, email, password_hash, image_path, created_at, updated_at
	`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// List returns all accounts ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, full_name, email, password_hash, image_path, created_at, updated_at
		FROM accounts ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a         models.Account
		imagePath sql.NullString
	)
	if err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &imagePath, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ImagePath = imagePath.String
	return &a, nil
}
