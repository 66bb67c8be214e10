package order

import (
	"context"

	"github.com/google/uuid"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	CreateOrder(ctx context.Context, o Order) (Order, error)
	GetOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Order, error)
	UpdateOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateOrderParams) (Order, error)
	UpdateOrderStatus(ctx context.Context, workspaceIdentity string, id uuid.UUID, status Status) (Order, error)
	DeleteOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID) error
	FindOrders(ctx context.Context, workspaceIdentity string, filter OrderFilter) ([]Order, error)
	CountOrders(ctx context.Context, workspaceIdentity string) (int64, error)
	WithTx(tx interface{}) OrderRepository
}

func notFoundError(id uuid.UUID) error {
	return errs.Newf(errs.ErrCodeNotFound, "order not found: %s", id)
}
