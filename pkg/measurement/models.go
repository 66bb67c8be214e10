package measurement

import (
	"time"

	"github.com/google/uuid"
)

// Measurement is a named set of body measurements for a customer, e.g. one
// set per garment type. Values maps measurement names to numbers in the
// workspace's configured unit.
type Measurement struct {
	ID                uuid.UUID          `json:"id"`
	WorkspaceIdentity string             `json:"-"`
	CustomerID        uuid.UUID          `json:"customer_id"`
	Label             string             `json:"label"`
	Values            map[string]float64 `json:"values"`
	Notes             string             `json:"notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// UpdateMeasurementParams is a partial update; nil fields keep their prior
// value. A non-nil Values replaces the whole map.
type UpdateMeasurementParams struct {
	Label  *string
	Values map[string]float64
	Notes  *string
}
