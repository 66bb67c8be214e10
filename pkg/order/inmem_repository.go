package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemOrderRepository implements OrderRepository in memory for tests and
// local development
type InMemOrderRepository struct {
	mutex  sync.Mutex
	orders map[uuid.UUID]Order
}

// NewInMemOrderRepository creates a new in-memory order repository
func NewInMemOrderRepository() *InMemOrderRepository {
	return &InMemOrderRepository{
		orders: make(map[uuid.UUID]Order),
	}
}

func (r *InMemOrderRepository) CreateOrder(ctx context.Context, o Order) (Order, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	r.orders[o.ID] = o
	return o, nil
}

func (r *InMemOrderRepository) GetOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Order, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	o, ok := r.orders[id]
	if !ok || o.WorkspaceIdentity != workspaceIdentity {
		return Order{}, notFoundError(id)
	}
	return o, nil
}

func (r *InMemOrderRepository) UpdateOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateOrderParams) (Order, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	o, ok := r.orders[id]
	if !ok || o.WorkspaceIdentity != workspaceIdentity {
		return Order{}, notFoundError(id)
	}

	if params.Description != nil {
		o.Description = *params.Description
	}
	if params.DueDate != nil {
		o.DueDate = params.DueDate
	}
	if params.PriceCents != nil {
		o.PriceCents = *params.PriceCents
	}
	if params.AdvanceCents != nil {
		o.AdvanceCents = *params.AdvanceCents
	}
	if params.Notes != nil {
		o.Notes = *params.Notes
	}
	o.UpdatedAt = time.Now().UTC()

	r.orders[id] = o
	return o, nil
}

func (r *InMemOrderRepository) UpdateOrderStatus(ctx context.Context, workspaceIdentity string, id uuid.UUID, status Status) (Order, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	o, ok := r.orders[id]
	if !ok || o.WorkspaceIdentity != workspaceIdentity {
		return Order{}, notFoundError(id)
	}

	o.Status = status
	o.UpdatedAt = time.Now().UTC()

	r.orders[id] = o
	return o, nil
}

func (r *InMemOrderRepository) DeleteOrder(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	o, ok := r.orders[id]
	if !ok || o.WorkspaceIdentity != workspaceIdentity {
		return notFoundError(id)
	}

	delete(r.orders, id)
	return nil
}

func (r *InMemOrderRepository) FindOrders(ctx context.Context, workspaceIdentity string, filter OrderFilter) ([]Order, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var orders []Order
	for _, o := range r.orders {
		if o.WorkspaceIdentity != workspaceIdentity {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		orders = append(orders, o)
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID.String() > orders[j].ID.String()
	})

	return orders, nil
}

func (r *InMemOrderRepository) CountOrders(ctx context.Context, workspaceIdentity string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var count int64
	for _, o := range r.orders {
		if o.WorkspaceIdentity == workspaceIdentity {
			count++
		}
	}
	return count, nil
}

// WithTx is a no-op for the in-memory repository
func (r *InMemOrderRepository) WithTx(tx interface{}) OrderRepository {
	return r
}
