package customer

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
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL
type PostgresCustomerRepository struct {
	db DBTX
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository
func NewPostgresCustomerRepository(db DBTX) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// CreateCustomer inserts a new customer row
func (r *PostgresCustomerRepository) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	now := time.Now().UTC()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `
		INSERT INTO customer (id, workspace_identity, name, phone, email, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, workspace_identity, name, phone, email, address, notes, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, c.ID, c.WorkspaceIdentity, c.Name, c.Phone, c.Email, c.Address, c.Notes, now, now)

	var result Customer
	if err := scanCustomer(row, &result); err != nil {
		slog.Error("Failed to create customer", "err", err, "workspace", c.WorkspaceIdentity)
		return Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	slog.Debug("Customer created", "id", result.ID, "workspace", result.WorkspaceIdentity)
	return result, nil
}

// GetCustomer retrieves a customer by id within a workspace
func (r *PostgresCustomerRepository) GetCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Customer, error) {
	query := `
		SELECT id, workspace_identity, name, phone, email, address, notes, created_at, updated_at
		FROM customer
		WHERE workspace_identity = $1 AND id = $2
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity, id)

	var c Customer
	if err := scanCustomer(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, notFoundError(id)
		}
		slog.Error("Failed to get customer", "err", err, "id", id)
		return Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return c, nil
}

// UpdateCustomer applies a partial update. Nil fields keep their prior value
// via COALESCE.
func (r *PostgresCustomerRepository) UpdateCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateCustomerParams) (Customer, error) {
	query := `
		UPDATE customer
		SET name = COALESCE($3, name),
		    phone = COALESCE($4, phone),
		    email = COALESCE($5, email),
		    address = COALESCE($6, address),
		    notes = COALESCE($7, notes),
		    updated_at = $8
		WHERE workspace_identity = $1 AND id = $2
		RETURNING id, workspace_identity, name, phone, email, address, notes, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity, id,
		params.Name, params.Phone, params.Email, params.Address, params.Notes, time.Now().UTC())

	var c Customer
	if err := scanCustomer(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, notFoundError(id)
		}
		slog.Error("Failed to update customer", "err", err, "id", id)
		return Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	slog.Debug("Customer updated", "id", c.ID, "workspace", c.WorkspaceIdentity)
	return c, nil
}

// DeleteCustomer removes a customer row
func (r *PostgresCustomerRepository) DeleteCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	query := `DELETE FROM customer WHERE workspace_identity = $1 AND id = $2`

	result, err := r.db.Exec(ctx, query, workspaceIdentity, id)
	if err != nil {
		slog.Error("Failed to delete customer", "err", err, "id", id)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return notFoundError(id)
	}

	slog.Debug("Customer deleted", "id", id, "workspace", workspaceIdentity)
	return nil
}

// ListCustomers returns one keyset page, newest first. It fetches one extra
// row to decide whether a next page exists.
func (r *PostgresCustomerRepository) ListCustomers(ctx context.Context, workspaceIdentity string, cursor Cursor, limit int) (CustomerPage, error) {
	limit = NormalizeLimit(limit)

	var rows pgx.Rows
	var err error
	if cursor.IsZero() {
		query := `
			SELECT id, workspace_identity, name, phone, email, address, notes, created_at, updated_at
			FROM customer
			WHERE workspace_identity = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		`
		rows, err = r.db.Query(ctx, query, workspaceIdentity, limit+1)
	} else {
		query := `
			SELECT id, workspace_identity, name, phone, email, address, notes, created_at, updated_at
			FROM customer
			WHERE workspace_identity = $1 AND (created_at, id) < ($2, $3)
			ORDER BY created_at DESC, id DESC
			LIMIT $4
		`
		rows, err = r.db.Query(ctx, query, workspaceIdentity, cursor.CreatedAt, cursor.ID, limit+1)
	}
	if err != nil {
		slog.Error("Failed to list customers", "err", err, "workspace", workspaceIdentity)
		return CustomerPage{}, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := scanCustomer(rows, &c); err != nil {
			return CustomerPage{}, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return CustomerPage{}, fmt.Errorf("failed to list customers: %w", err)
	}

	page := CustomerPage{Customers: customers}
	if len(customers) > limit {
		page.Customers = customers[:limit]
		last := page.Customers[limit-1]
		page.NextCursor = Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}

	return page, nil
}

// WithTx returns a new repository with the given transaction
func (r *PostgresCustomerRepository) WithTx(tx interface{}) CustomerRepository {
	if tx == nil {
		return r
	}

	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		slog.Warn("Unsupported transaction type", "type", reflect.TypeOf(tx))
		return r
	}

	return NewPostgresCustomerRepository(pgxTx)
}

func scanCustomer(row pgx.Row, c *Customer) error {
	return row.Scan(
		&c.ID,
		&c.WorkspaceIdentity,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Address,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}
