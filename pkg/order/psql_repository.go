package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

const pgForeignKeyViolation = "23503"

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db DBTX
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db DBTX) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// CreateOrder inserts a new order row. A foreign key violation on the
// customer reference maps to INVALID_INPUT.
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, o Order) (Order, error) {
	now := time.Now().UTC()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}

	query := `
		INSERT INTO workorder (id, workspace_identity, customer_id, number, description, status, due_date, price_cents, advance_cents, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, workspace_identity, customer_id, number, description, status, due_date, price_cents, advance_cents, notes, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query,
		o.ID, o.WorkspaceIdentity, o.CustomerID, o.Number, o.Description, o.Status,
		o.DueDate, o.PriceCents, o.AdvanceCents, o.Notes, now, now)

	var result Order
	if err := scanOrder(row, &result); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Order{}, errs.Newf(errs.ErrCodeInvalidInput, "unknown customer: %s", o.CustomerID)
		}
		slog.Error("Failed to create order", "err", err, "workspace", o.WorkspaceIdentity)
		return Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Debug("Order created", "id", result.ID, "number", result.Number, "workspace", result.WorkspaceIdentity)
	return result, nil
}

// GetOrder retrieves an order by id within a workspace
func (r *PostgresOrderRepository) GetOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Order, error) {
	query := `
		SELECT id, workspace_identity, customer_id, number, description, status, due_date, price_cents, advance_cents, notes, created_at, updated_at
		FROM workorder
		WHERE workspace_identity = $1 AND id = $2
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity, id)

	var o Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, notFoundError(id)
		}
		slog.Error("Failed to get order", "err", err, "id", id)
		return Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// UpdateOrder applies a partial update. Nil fields keep their prior value
// via COALESCE. Status is not touched here.
func (r *PostgresOrderRepository) UpdateOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateOrderParams) (Order, error) {
	query := `
		UPDATE workorder
		SET description = COALESCE($3, description),
		    due_date = COALESCE($4, due_date),
		    price_cents = COALESCE($5, price_cents),
		    advance_cents = COALESCE($6, advance_cents),
		    notes = COALESCE($7, notes),
		    updated_at = $8
		WHERE workspace_identity = $1 AND id = $2
		RETURNING id, workspace_identity, customer_id, number, description, status, due_date, price_cents, advance_cents, notes, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity, id,
		params.Description, params.DueDate, params.PriceCents, params.AdvanceCents, params.Notes, time.Now().UTC())

	var o Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, notFoundError(id)
		}
		slog.Error("Failed to update order", "err", err, "id", id)
		return Order{}, fmt.Errorf("failed to update order: %w", err)
	}

	slog.Debug("Order updated", "id", o.ID, "workspace", o.WorkspaceIdentity)
	return o, nil
}

// UpdateOrderStatus sets a new lifecycle status. The transition is validated
// by the service before it reaches here.
func (r *PostgresOrderRepository) UpdateOrderStatus(ctx context.Context, workspaceIdentity string, id uuid.UUID, status Status) (Order, error) {
	query := `
		UPDATE workorder
		SET status = $3, updated_at = $4
		WHERE workspace_identity = $1 AND id = $2
		RETURNING id, workspace_identity, customer_id, number, description, status, due_date, price_cents, advance_cents, notes, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity, id, status, time.Now().UTC())

	var o Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, notFoundError(id)
		}
		slog.Error("Failed to update order status", "err", err, "id", id)
		return Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	slog.Debug("Order status updated", "id", o.ID, "status", o.Status)
	return o, nil
}

// DeleteOrder removes an order row
func (r *PostgresOrderRepository) DeleteOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	query := `DELETE FROM workorder WHERE workspace_identity = $1 AND id = $2`

	result, err := r.db.Exec(ctx, query, workspaceIdentity, id)
	if err != nil {
		slog.Error("Failed to delete order", "err", err, "id", id)
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return notFoundError(id)
	}

	slog.Debug("Order deleted", "id", id, "workspace", workspaceIdentity)
	return nil
}

// FindOrders returns the workspace's orders, newest first, optionally
// filtered by status and customer
func (r *PostgresOrderRepository) FindOrders(ctx context.Context, workspaceIdentity string, filter OrderFilter) ([]Order, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, workspace_identity, customer_id, number, description, status, due_date, price_cents, advance_cents, notes, created_at, updated_at
		FROM workorder
		WHERE workspace_identity = $1
	`)

	args := []interface{}{workspaceIdentity}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		fmt.Fprintf(&sb, " AND customer_id = $%d", len(args))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		slog.Error("Failed to find orders", "err", err, "workspace", workspaceIdentity)
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

// CountOrders returns the number of orders in a workspace, used for order
// number generation
func (r *PostgresOrderRepository) CountOrders(ctx context.Context, workspaceIdentity string) (int64, error) {
	query := `SELECT COUNT(*) FROM workorder WHERE workspace_identity = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, workspaceIdentity).Scan(&count); err != nil {
		slog.Error("Failed to count orders", "err", err, "workspace", workspaceIdentity)
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// WithTx returns a new repository with the given transaction
func (r *PostgresOrderRepository) WithTx(tx interface{}) OrderRepository {
	if tx == nil {
		return r
	}

	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		slog.Warn("Unsupported transaction type", "type", reflect.TypeOf(tx))
		return r
	}

	return NewPostgresOrderRepository(pgxTx)
}

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(
		&o.ID,
		&o.WorkspaceIdentity,
		&o.CustomerID,
		&o.Number,
		&o.Description,
		&o.Status,
		&o.DueDate,
		&o.PriceCents,
		&o.AdvanceCents,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}
