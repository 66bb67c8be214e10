package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db DBTX
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(db DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// UpsertAccount inserts an account or refreshes its profile fields if the
// identity is already known. Provisioning webhooks may be redelivered, so
// this path has to be idempotent.
func (r *PostgresAccountRepository) UpsertAccount(ctx context.Context, acct Account) (Account, error) {
	now := time.Now().UTC()
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = now
	}

	query := `
		INSERT INTO account (identity, email, name, picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, picture = EXCLUDED.picture, updated_at = EXCLUDED.updated_at
		RETURNING identity, email, name, picture, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, acct.Identity, strings.ToLower(acct.Email), acct.Name, acct.Picture, acct.CreatedAt, now)

	var result Account
	err := row.Scan(
		&result.Identity,
		&result.Email,
		&result.Name,
		&result.Picture,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		slog.Error("Failed to upsert account", "err", err, "identity", acct.Identity)
		return Account{}, fmt.Errorf("failed to upsert account: %w", err)
	}

	slog.Debug("Account upserted", "identity", result.Identity)
	return result, nil
}

// GetAccount retrieves an account by its identity token
func (r *PostgresAccountRepository) GetAccount(ctx context.Context, identity string) (Account, error) {
	query := `
		SELECT identity, email, name, picture, created_at, updated_at
		FROM account
		WHERE identity = $1
	`

	row := r.db.QueryRow(ctx, query, identity)

	var acct Account
	err := row.Scan(
		&acct.Identity,
		&acct.Email,
		&acct.Name,
		&acct.Picture,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Debug("Account not found", "identity", identity)
			return Account{}, errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", identity)
		}
		slog.Error("Failed to get account", "err", err, "identity", identity)
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	return acct, nil
}

// GetAccountByEmail retrieves an account by email (case insensitive)
func (r *PostgresAccountRepository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	query := `
		SELECT identity, email, name, picture, created_at, updated_at
		FROM account
		WHERE email = $1
	`

	row := r.db.QueryRow(ctx, query, strings.ToLower(email))

	var acct Account
	err := row.Scan(
		&acct.Identity,
		&acct.Email,
		&acct.Name,
		&acct.Picture,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Debug("Account not found by email", "email", email)
			return Account{}, errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", email)
		}
		slog.Error("Failed to get account by email", "err", err, "email", email)
		return Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	return acct, nil
}

// DeleteAccount removes an account from the directory
func (r *PostgresAccountRepository) DeleteAccount(ctx context.Context, identity string) error {
	query := `DELETE FROM account WHERE identity = $1`

	result, err := r.db.Exec(ctx, query, identity)
	if err != nil {
		slog.Error("Failed to delete account", "err", err, "identity", identity)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", identity)
	}

	slog.Debug("Account deleted", "identity", identity)
	return nil
}
