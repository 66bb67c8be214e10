package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresSettingsRepository implements SettingsRepository using PostgreSQL
type PostgresSettingsRepository struct {
	db DBTX
}

// NewPostgresSettingsRepository creates a new PostgreSQL settings repository
func NewPostgresSettingsRepository(db DBTX) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

// GetSettings retrieves the settings row for a workspace
func (r *PostgresSettingsRepository) GetSettings(ctx context.Context, workspaceIdentity string) (Settings, error) {
	query := `
		SELECT workspace_identity, shop_name, currency, measurement_unit, order_prefix, created_at, updated_at
		FROM settings
		WHERE workspace_identity = $1
	`

	row := r.db.QueryRow(ctx, query, workspaceIdentity)

	var s Settings
	err := row.Scan(
		&s.WorkspaceIdentity,
		&s.ShopName,
		&s.Currency,
		&s.MeasurementUnit,
		&s.OrderPrefix,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, notFoundError(workspaceIdentity)
		}
		slog.Error("Failed to get settings", "err", err, "workspace", workspaceIdentity)
		return Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	return s, nil
}

// UpsertSettings inserts or replaces the settings row for a workspace
func (r *PostgresSettingsRepository) UpsertSettings(ctx context.Context, s Settings) (Settings, error) {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}

	query := `
		INSERT INTO settings (workspace_identity, shop_name, currency, measurement_unit, order_prefix, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (workspace_identity) DO UPDATE
		SET shop_name = EXCLUDED.shop_name,
		    currency = EXCLUDED.currency,
		    measurement_unit = EXCLUDED.measurement_unit,
		    order_prefix = EXCLUDED.order_prefix,
		    updated_at = EXCLUDED.updated_at
		RETURNING workspace_identity, shop_name, currency, measurement_unit, order_prefix, created_at, updated_at
	`

	row := r.db.QueryRow(ctx, query, s.WorkspaceIdentity, s.ShopName, s.Currency, s.MeasurementUnit, s.OrderPrefix, s.CreatedAt, now)

	var result Settings
	err := row.Scan(
		&result.WorkspaceIdentity,
		&result.ShopName,
		&result.Currency,
		&result.MeasurementUnit,
		&result.OrderPrefix,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		slog.Error("Failed to upsert settings", "err", err, "workspace", s.WorkspaceIdentity)
		return Settings{}, fmt.Errorf("failed to upsert settings: %w", err)
	}

	slog.Debug("Settings upserted", "workspace", result.WorkspaceIdentity)
	return result, nil
}

// WithTx returns a new repository with the given transaction
func (r *PostgresSettingsRepository) WithTx(tx interface{}) SettingsRepository {
	if tx == nil {
		return r
	}

	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		slog.Warn("Unsupported transaction type", "type", reflect.TypeOf(tx))
		return r
	}

	return NewPostgresSettingsRepository(pgxTx)
}
