package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// allowedTransitions maps each status to the statuses it may move to.
// Delivered and cancelled are terminal; every other status may cancel.
// Ready may fall back to in_progress for rework after a fitting.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusReady, StatusCancelled},
	StatusReady:      {StatusDelivered, StatusInProgress, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle permits moving to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a tailoring job for a customer. WorkspaceIdentity is the tenant
// key; CustomerID references a customer in the same workspace.
type Order struct {
	ID                uuid.UUID  `json:"id"`
	WorkspaceIdentity string     `json:"-"`
	CustomerID        uuid.UUID  `json:"customer_id"`
	Number            string     `json:"number"`
	Description       string     `json:"description"`
	Status            Status     `json:"status"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	PriceCents        int64      `json:"price_cents"`
	AdvanceCents      int64      `json:"advance_cents"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// UpdateOrderParams is a partial update; nil fields keep their prior value.
// Status moves through UpdateStatus only, so the lifecycle check cannot be
// bypassed.
type UpdateOrderParams struct {
	Description  *string
	DueDate      *time.Time
	PriceCents   *int64
	AdvanceCents *int64
	Notes        *string
}

// OrderFilter narrows a listing; nil fields match everything
type OrderFilter struct {
	Status     *Status
	CustomerID *uuid.UUID
}
