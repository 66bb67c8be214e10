package measurement

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemMeasurementRepository implements MeasurementRepository in memory for
// tests and local development
type InMemMeasurementRepository struct {
	mutex        sync.Mutex
	measurements map[uuid.UUID]Measurement
}

// NewInMemMeasurementRepository creates a new in-memory measurement repository
func NewInMemMeasurementRepository() *InMemMeasurementRepository {
	return &InMemMeasurementRepository{
		measurements: make(map[uuid.UUID]Measurement),
	}
}

func (r *InMemMeasurementRepository) CreateMeasurement(ctx context.Context, m Measurement) (Measurement, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Values == nil {
		m.Values = map[string]float64{}
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	r.measurements[m.ID] = m
	return m, nil
}

func (r *InMemMeasurementRepository) GetMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Measurement, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	m, ok := r.measurements[id]
	if !ok || m.WorkspaceIdentity != workspaceIdentity {
		return Measurement{}, notFoundError(id)
	}
	return m, nil
}

func (r *InMemMeasurementRepository) UpdateMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateMeasurementParams) (Measurement, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	m, ok := r.measurements[id]
	if !ok || m.WorkspaceIdentity != workspaceIdentity {
		return Measurement{}, notFoundError(id)
	}

	if params.Label != nil {
		m.Label = *params.Label
	}
	if params.Values != nil {
		m.Values = params.Values
	}
	if params.Notes != nil {
		m.Notes = *params.Notes
	}
	m.UpdatedAt = time.Now().UTC()

	r.measurements[id] = m
	return m, nil
}

func (r *InMemMeasurementRepository) DeleteMeasurement(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	m, ok := r.measurements[id]
	if !ok || m.WorkspaceIdentity != workspaceIdentity {
		return notFoundError(id)
	}

	delete(r.measurements, id)
	return nil
}

func (r *InMemMeasurementRepository) FindMeasurementsByCustomer(ctx context.Context, workspaceIdentity string, customerID uuid.UUID) ([]Measurement, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var measurements []Measurement
	for _, m := range r.measurements {
		if m.WorkspaceIdentity != workspaceIdentity || m.CustomerID != customerID {
			continue
		}
		measurements = append(measurements, m)
	}

	sort.Slice(measurements, func(i, j int) bool {
		if !measurements[i].CreatedAt.Equal(measurements[j].CreatedAt) {
			return measurements[i].CreatedAt.After(measurements[j].CreatedAt)
		}
		return measurements[i].ID.String() > measurements[j].ID.String()
	})

	return measurements, nil
}

// WithTx is a no-op for the in-memory repository
func (r *InMemMeasurementRepository) WithTx(tx interface{}) MeasurementRepository {
	return r
}
