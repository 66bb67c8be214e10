package customer

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a client of the tailoring shop. WorkspaceIdentity is the
// tenant key; every query filters on it.
type Customer struct {
	ID                uuid.UUID `json:"id"`
	WorkspaceIdentity string    `json:"-"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone,omitempty"`
	Email             string    `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UpdateCustomerParams is a partial update; nil fields keep their prior value
type UpdateCustomerParams struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// CustomerPage is one page of a cursor-paged customer listing. NextCursor is
// empty on the last page.
type CustomerPage struct {
	Customers  []Customer `json:"customers"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
