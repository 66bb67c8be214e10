package measurement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// CustomerChecker verifies that a customer belongs to a workspace. The
// customer service implements it.
type CustomerChecker interface {
	Exists(ctx context.Context, workspaceIdentity string, id uuid.UUID) error
}

// MeasurementService provides measurement operations for a workspace
type MeasurementService struct {
	repo      MeasurementRepository
	customers CustomerChecker
}

// NewMeasurementService creates a new measurement service
func NewMeasurementService(repo MeasurementRepository, customers CustomerChecker) *MeasurementService {
	return &MeasurementService{repo: repo, customers: customers}
}

// Create records a measurement set for a customer. The customer must exist
// in this workspace; a customer id from another workspace is rejected the
// same way as an unknown one.
func (s *MeasurementService) Create(ctx context.Context, workspaceIdentity string, m Measurement) (Measurement, error) {
	if m.CustomerID == uuid.Nil {
		return Measurement{}, errs.New(errs.ErrCodeMissingRequired, "customer_id is required")
	}
	if strings.TrimSpace(m.Label) == "" {
		return Measurement{}, errs.New(errs.ErrCodeMissingRequired, "label is required")
	}
	if err := validateValues(m.Values); err != nil {
		return Measurement{}, err
	}

	if err := s.customers.Exists(ctx, workspaceIdentity, m.CustomerID); err != nil {
		if errs.IsCode(err, errs.ErrCodeNotFound) {
			return Measurement{}, errs.Newf(errs.ErrCodeInvalidInput, "unknown customer: %s", m.CustomerID)
		}
		return Measurement{}, fmt.Errorf("failed to verify customer: %w", err)
	}

	m.WorkspaceIdentity = workspaceIdentity
	created, err := s.repo.CreateMeasurement(ctx, m)
	if err != nil {
		return Measurement{}, fmt.Errorf("failed to create measurement: %w", err)
	}

	slog.Info("Measurement created", "id", created.ID, "customer", created.CustomerID, "workspace", workspaceIdentity)
	return created, nil
}

// Get returns a single measurement set
func (s *MeasurementService) Get(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Measurement, error) {
	return s.repo.GetMeasurement(ctx, workspaceIdentity, id)
}

// Update applies a partial update to a measurement set
func (s *MeasurementService) Update(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateMeasurementParams) (Measurement, error) {
	if params.Label != nil && strings.TrimSpace(*params.Label) == "" {
		return Measurement{}, errs.New(errs.ErrCodeInvalidInput, "label cannot be empty")
	}
	if params.Values != nil {
		if err := validateValues(params.Values); err != nil {
			return Measurement{}, err
		}
	}
	return s.repo.UpdateMeasurement(ctx, workspaceIdentity, id, params)
}

// Delete removes a measurement set
func (s *MeasurementService) Delete(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	if err := s.repo.DeleteMeasurement(ctx, workspaceIdentity, id); err != nil {
		return err
	}
	slog.Info("Measurement deleted", "id", id, "workspace", workspaceIdentity)
	return nil
}

// ListByCustomer returns a customer's measurement sets, newest first
func (s *MeasurementService) ListByCustomer(ctx context.Context, workspaceIdentity string, customerID uuid.UUID) ([]Measurement, error) {
	return s.repo.FindMeasurementsByCustomer(ctx, workspaceIdentity, customerID)
}

func validateValues(values map[string]float64) error {
	for name, v := range values {
		if strings.TrimSpace(name) == "" {
			return errs.New(errs.ErrCodeInvalidInput, "measurement names cannot be empty")
		}
		if v < 0 {
			return errs.Newf(errs.ErrCodeInvalidInput, "measurement %q cannot be negative", name)
		}
	}
	return nil
}
