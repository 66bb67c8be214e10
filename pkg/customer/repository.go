package customer

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// CustomerRepository defines the interface for customer persistence.
// Listings are keyset-paged, newest first.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c Customer) (Customer, error)
	GetCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Customer, error)
	UpdateCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateCustomerParams) (Customer, error)
	DeleteCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID) error
	ListCustomers(ctx context.Context, workspaceIdentity string, cursor Cursor, limit int) (CustomerPage, error)
	WithTx(tx interface{}) CustomerRepository
}

// Cursor is the keyset position of a listing: the creation time and id of
// the last row already returned. The zero value means "from the top".
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// IsZero reports whether the cursor points to the start of the listing
func (c Cursor) IsZero() bool {
	return c.CreatedAt.IsZero()
}

// Encode serializes the cursor into an opaque URL-safe token
func (c Cursor) Encode() string {
	if c.IsZero() {
		return ""
	}
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor token. An empty token yields the zero cursor.
func DecodeCursor(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, errs.New(errs.ErrCodeInvalidInput, "invalid cursor")
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, errs.New(errs.ErrCodeInvalidInput, "invalid cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, errs.New(errs.ErrCodeInvalidInput, "invalid cursor")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Cursor{}, errs.New(errs.ErrCodeInvalidInput, "invalid cursor")
	}

	return Cursor{CreatedAt: createdAt, ID: id}, nil
}

// NormalizeLimit clamps a requested page size into [1, MaxPageSize]
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func notFoundError(id uuid.UUID) error {
	return errs.Newf(errs.ErrCodeNotFound, "customer not found: %s", id)
}
