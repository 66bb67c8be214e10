package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// PostgreSQL error codes surfaced by the delegation table constraints
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresDelegationRepository implements DelegationRepository using PostgreSQL
type PostgresDelegationRepository struct {
	db DBTX
}

// NewPostgresDelegationRepository creates a new PostgreSQL delegation repository
func NewPostgresDelegationRepository(db DBTX) *PostgresDelegationRepository {
	return &PostgresDelegationRepository{db: db}
}

// CreateDelegation inserts a new delegation row. The unique constraint on
// (owner_identity, admin_identity) makes the create atomic: a concurrent
// duplicate loses with ALREADY_DELEGATED rather than producing a second row.
func (r *PostgresDelegationRepository) CreateDelegation(ctx context.Context, delegation Delegation) (Delegation, error) {
	now := time.Now().UTC()
	if delegation.ID == uuid.Nil {
		delegation.ID = uuid.New()
	}
	if delegation.Role == "" {
		delegation.Role = DefaultRole
	}
	if delegation.Status == "" {
		delegation.Status = StatusActive
	}

	query := `
		INSERT INTO delegation (id, owner_identity, admin_identity, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, owner_identity, admin_identity, role, status, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query,
		delegation.ID,
		delegation.OwnerIdentity,
		delegation.AdminIdentity,
		string(delegation.Role),
		string(delegation.Status),
		now,
		now,
	)

	var result Delegation
	err := scanDelegation(row, &result)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				slog.Debug("Delegation already exists", "owner", delegation.OwnerIdentity, "admin", delegation.AdminIdentity)
				return Delegation{}, errs.New(errs.ErrCodeAlreadyDelegated, "delegation already exists for this pair")
			case pgCheckViolation:
				return Delegation{}, errs.New(errs.ErrCodeSelfDelegation, "cannot delegate to yourself")
			}
		}
		slog.Error("Failed to create delegation", "err", err, "owner", delegation.OwnerIdentity, "admin", delegation.AdminIdentity)
		return Delegation{}, fmt.Errorf("failed to create delegation: %w", err)
	}

	slog.Debug("Delegation created", "owner", result.OwnerIdentity, "admin", result.AdminIdentity, "role", result.Role)
	return result, nil
}

// GetDelegation retrieves the delegation for an (owner, admin) pair
func (r *PostgresDelegationRepository) GetDelegation(ctx context.Context, ownerIdentity, adminIdentity string) (Delegation, error) {
	query := `
		SELECT id, owner_identity, admin_identity, role, status, created_at, updated_at
		FROM delegation
		WHERE owner_identity = $1 AND admin_identity = $2
	`

	row := r.db.QueryRow(ctx, query, ownerIdentity, adminIdentity)

	var delegation Delegation
	err := scanDelegation(row, &delegation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Debug("Delegation not found", "owner", ownerIdentity, "admin", adminIdentity)
			return Delegation{}, errs.New(errs.ErrCodeNotFound, "delegation not found")
		}
		slog.Error("Failed to get delegation", "err", err, "owner", ownerIdentity, "admin", adminIdentity)
		return Delegation{}, fmt.Errorf("failed to get delegation: %w", err)
	}

	return delegation, nil
}

// UpdateDelegation applies a partial update. COALESCE keeps any field whose
// pointer is nil exactly as stored, so a role-only update can never touch
// the status column.
func (r *PostgresDelegationRepository) UpdateDelegation(ctx context.Context, ownerIdentity, adminIdentity string, params UpdateDelegationParams) (Delegation, error) {
	var role, status *string
	if params.Role != nil {
		s := string(*params.Role)
		role = &s
	}
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}

	query := `
		UPDATE delegation
		SET role = COALESCE($3, role), status = COALESCE($4, status), updated_at = $5
		WHERE owner_identity = $1 AND admin_identity = $2
		RETURNING id, owner_identity, admin_identity, role, status, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, ownerIdentity, adminIdentity, role, status, time.Now().UTC())

	var delegation Delegation
	err := scanDelegation(row, &delegation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Debug("Delegation not found for update", "owner", ownerIdentity, "admin", adminIdentity)
			return Delegation{}, errs.New(errs.ErrCodeNotFound, "delegation not found")
		}
		slog.Error("Failed to update delegation", "err", err, "owner", ownerIdentity, "admin", adminIdentity)
		return Delegation{}, fmt.Errorf("failed to update delegation: %w", err)
	}

	slog.Debug("Delegation updated", "owner", delegation.OwnerIdentity, "admin", delegation.AdminIdentity,
		"role", delegation.Role, "status", delegation.Status)
	return delegation, nil
}

// DeleteDelegation hard-deletes the delegation row
func (r *PostgresDelegationRepository) DeleteDelegation(ctx context.Context, ownerIdentity, adminIdentity string) error {
	query := `
		DELETE FROM delegation
		WHERE owner_identity = $1 AND admin_identity = $2
	`

	result, err := r.db.Exec(ctx, query, ownerIdentity, adminIdentity)
	if err != nil {
		slog.Error("Failed to delete delegation", "err", err, "owner", ownerIdentity, "admin", adminIdentity)
		return fmt.Errorf("failed to delete delegation: %w", err)
	}

	if result.RowsAffected() == 0 {
		slog.Debug("Delegation not found for delete", "owner", ownerIdentity, "admin", adminIdentity)
		return errs.New(errs.ErrCodeNotFound, "delegation not found")
	}

	slog.Debug("Delegation deleted", "owner", ownerIdentity, "admin", adminIdentity)
	return nil
}

// FindDelegationsByOwner returns all delegations an owner has granted,
// newest first
func (r *PostgresDelegationRepository) FindDelegationsByOwner(ctx context.Context, ownerIdentity string) ([]Delegation, error) {
	query := `
		SELECT id, owner_identity, admin_identity, role, status, created_at, updated_at
		FROM delegation
		WHERE owner_identity = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerIdentity)
	if err != nil {
		slog.Error("Failed to find delegations by owner", "err", err, "owner", ownerIdentity)
		return nil, fmt.Errorf("failed to find delegations by owner: %w", err)
	}
	defer rows.Close()

	return collectDelegations(rows)
}

// FindActiveDelegationsByAdmin returns all active delegations granted to an
// admin. Revoked rows never appear here.
func (r *PostgresDelegationRepository) FindActiveDelegationsByAdmin(ctx context.Context, adminIdentity string) ([]Delegation, error) {
	query := `
		SELECT id, owner_identity, admin_identity, role, status, created_at, updated_at
		FROM delegation
		WHERE admin_identity = $1 AND status = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, adminIdentity, string(StatusActive))
	if err != nil {
		slog.Error("Failed to find delegations by admin", "err", err, "admin", adminIdentity)
		return nil, fmt.Errorf("failed to find delegations by admin: %w", err)
	}
	defer rows.Close()

	return collectDelegations(rows)
}

// WithTx returns a new repository with the given transaction
func (r *PostgresDelegationRepository) WithTx(tx interface{}) DelegationRepository {
	if tx == nil {
		return r
	}

	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		slog.Warn("Unsupported transaction type", "type", reflect.TypeOf(tx))
		return r
	}

	return NewPostgresDelegationRepository(pgxTx)
}

func scanDelegation(row pgx.Row, d *Delegation) error {
	var role, status string
	err := row.Scan(
		&d.ID,
		&d.OwnerIdentity,
		&d.AdminIdentity,
		&role,
		&status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	d.Role = Role(role)
	d.Status = Status(status)
	return nil
}

func collectDelegations(rows pgx.Rows) ([]Delegation, error) {
	var delegations []Delegation
	for rows.Next() {
		var d Delegation
		var role, status string
		err := rows.Scan(
			&d.ID,
			&d.OwnerIdentity,
			&d.AdminIdentity,
			&role,
			&status,
			&d.CreatedAt,
			&d.UpdatedAt,
		)
		if err != nil {
			slog.Error("Failed to scan delegation", "err", err)
			return nil, fmt.Errorf("failed to scan delegation: %w", err)
		}
		d.Role = Role(role)
		d.Status = Status(status)
		delegations = append(delegations, d)
	}

	if err := rows.Err(); err != nil {
		slog.Error("Error iterating over delegations", "err", err)
		return nil, fmt.Errorf("error iterating over delegations: %w", err)
	}

	return delegations, nil
}
