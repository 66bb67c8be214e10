package measurement

import (
	"context"

	"github.com/google/uuid"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// MeasurementRepository defines the interface for measurement persistence
type MeasurementRepository interface {
	CreateMeasurement(ctx context.Context, m Measurement) (Measurement, error)
	GetMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Measurement, error)
	UpdateMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateMeasurementParams) (Measurement, error)
	DeleteMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID) error
	FindMeasurementsByCustomer(ctx context.Context, workspaceIdentity string, customerID uuid.UUID) ([]Measurement, error)
	WithTx(tx interface{}) MeasurementRepository
}

func notFoundError(id uuid.UUID) error {
	return errs.Newf(errs.ErrCodeNotFound, "measurement not found: %s", id)
}
