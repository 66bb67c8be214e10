package measurement

import (
	"context"
	"encoding/json"
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

const pgForeignKeyViolation = "23503"

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresMeasurementRepository implements MeasurementRepository using
// PostgreSQL. Values are stored as JSONB.
type PostgresMeasurementRepository struct {
	db DBTX
}

// NewPostgresMeasurementRepository creates a new PostgreSQL measurement repository
func NewPostgresMeasurementRepository(db DBTX) *PostgresMeasurementRepository {
	return &PostgresMeasurementRepository{db: db}
}

// CreateMeasurement inserts a new measurement row
func (r *PostgresMeasurementRepository) CreateMeasurement(ctx context.Context, m Measurement) (Measurement, error) {
	now := time.Now().UTC()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	values, err := marshalValues(m.Values)
	if err != nil {
		return Measurement{}, err
	}

	query := `
		INSERT INTO measurement (id, workspace_identity, customer_id, label, m_values, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, workspace_identity, customer_id, label, m_values, notes, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, m.ID, m.WorkspaceIdentity, m.CustomerID, m.Label, values, m.Notes, now, now)

	var result Measurement
	if err := scanMeasurement(row, &result); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Measurement{}, errs.Newf(errs.ErrCodeInvalidInput, "unknown customer: %s", m.CustomerID)
		}
		slog.Error("Failed to create measurement", "err", err, "workspace", m.WorkspaceIdentity)
		return Measurement{}, fmt.Errorf("failed to create measurement: %w", err)
	}

	slog.Debug("Measurement created", "id", result.ID, "customer", result.CustomerID)
	return result, nil
}

// GetMeasurement retrieves a measurement by id within a workspace
func (r *PostgresMeasurementRepository) GetMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Measurement, error) {
	query := `
		SELECT id, workspace_identity, customer_id, label, m_values, notes, created_at, updated_at
		FROM measurement
		WHERE workspace_identity = $1 AND id = $2
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity, id)

	var m Measurement
	if err := scanMeasurement(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Measurement{}, notFoundError(id)
		}
		slog.Error("Failed to get measurement", "err", err, "id", id)
		return Measurement{}, fmt.Errorf("failed to get measurement: %w", err)
	}

	return m, nil
}

// UpdateMeasurement applies a partial update. Nil fields keep their prior
// value; a non-nil Values replaces the stored map entirely.
func (r *PostgresMeasurementRepository) UpdateMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateMeasurementParams) (Measurement, error) {
	var values []byte
	if params.Values != nil {
		encoded, err := marshalValues(params.Values)
		if err != nil {
			return Measurement{}, err
		}
		values = encoded
	}

	query := `
		UPDATE measurement
		SET label = COALESCE($3, label),
		    m_values = COALESCE($4, m_values),
		    notes = COALESCE($5, notes),
		    updated_at = $6
		WHERE workspace_identity = $1 AND id = $2
		RETURNING id, workspace_identity, customer_id, label, m_values, notes, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity, id, params.Label, values, params.Notes, time.Now().UTC())

	var m Measurement
	if err := scanMeasurement(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Measurement{}, notFoundError(id)
		}
		slog.Error("Failed to update measurement", "err", err, "id", id)
		return Measurement{}, fmt.Errorf("failed to update measurement: %w", err)
	}

	slog.Debug("Measurement updated", "id", m.ID, "workspace", m.WorkspaceIdentity)
	return m, nil
}

// DeleteMeasurement removes a measurement row
func (r *PostgresMeasurementRepository) DeleteMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	query := `DELETE FROM measurement WHERE workspace_identity = $1 AND id = $2`

	result, err := r.db.Exec(ctx, query, workspaceIdentity, id)
	if err != nil {
		slog.Error("Failed to delete measurement", "err", err, "id", id)
		return fmt.Errorf("failed to delete measurement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return notFoundError(id)
	}

	slog.Debug("Measurement deleted", "id", id, "workspace", workspaceIdentity)
	return nil
}

// FindMeasurementsByCustomer returns a customer's measurement sets, newest first
func (r *PostgresMeasurementRepository) FindMeasurementsByCustomer(ctx context.Context, workspaceIdentity string, customerID uuid.UUID) ([]Measurement, error) {
	query := `
		SELECT id, workspace_identity, customer_id, label, m_values, notes, created_at, updated_at
		FROM measurement
		WHERE workspace_identity = $1 AND customer_id = $2
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, workspaceIdentity, customerID)
	if err != nil {
		slog.Error("Failed to find measurements", "err", err, "customer", customerID)
		return nil, fmt.Errorf("failed to find measurements: %w", err)
	}
	defer rows.Close()

	var measurements []Measurement
	for rows.Next() {
		var m Measurement
		if err := scanMeasurement(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find measurements: %w", err)
	}

	return measurements, nil
}

// WithTx returns a new repository with the given transaction
func (r *PostgresMeasurementRepository) WithTx(tx interface{}) MeasurementRepository {
	if tx == nil {
		return r
	}

	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		slog.Warn("Unsupported transaction type", "type", reflect.TypeOf(tx))
		return r
	}

	return NewPostgresMeasurementRepository(pgxTx)
}

func marshalValues(values map[string]float64) ([]byte, error) {
	if values == nil {
		values = map[string]float64{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode measurement values: %w", err)
	}
	return encoded, nil
}

func scanMeasurement(row pgx.Row, m *Measurement) error {
	var values []byte
	err := row.Scan(
		&m.ID,
		&m.WorkspaceIdentity,
		&m.CustomerID,
		&m.Label,
		&values,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if len(values) > 0 {
		if err := json.Unmarshal(values, &m.Values); err != nil {
			return fmt.Errorf("failed to decode measurement values: %w", err)
		}
	}
	if m.Values == nil {
		m.Values = map[string]float64{}
	}
	return nil
}
