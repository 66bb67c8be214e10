package customer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemCustomerRepository implements CustomerRepository in memory for tests
// and local development
type InMemCustomerRepository struct {
	mutex     sync.Mutex
	customers map[uuid.UUID]Customer
}

// NewInMemCustomerRepository creates a new in-memory customer repository
func NewInMemCustomerRepository() *InMemCustomerRepository {
	return &InMemCustomerRepository{
		customers: make(map[uuid.UUID]Customer),
	}
}

func (r *InMemCustomerRepository) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	r.customers[c.ID] = c
	return c, nil
}

func (r *InMemCustomerRepository) GetCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID) (Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, ok := r.customers[id]
	if !ok || c.WorkspaceIdentity != workspaceIdentity {
		return Customer{}, notFoundError(id)
	}
	return c, nil
}

func (r *InMemCustomerRepository) UpdateCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID, params UpdateCustomerParams) (Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, ok := r.customers[id]
	if !ok || c.WorkspaceIdentity != workspaceIdentity {
		return Customer{}, notFoundError(id)
	}

	if params.Name != nil {
		c.Name = *params.Name
	}
	if params.Phone != nil {
		c.Phone = *params.Phone
	}
	if params.Email != nil {
		c.Email = *params.Email
	}
	if params.Address != nil {
		c.Address = *params.Address
	}
	if params.Notes != nil {
		c.Notes = *params.Notes
	}
	c.UpdatedAt = time.Now().UTC()

	r.customers[id] = c
	return c, nil
}

func (r *InMemCustomerRepository) DeleteCustomer(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, ok := r.customers[id]
	if !ok || c.WorkspaceIdentity != workspaceIdentity {
		return notFoundError(id)
	}

	delete(r.customers, id)
	return nil
}

func (r *InMemCustomerRepository) ListCustomers(ctx context.Context, workspaceIdentity string, cursor Cursor, limit int) (CustomerPage, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	limit = NormalizeLimit(limit)

	var all []Customer
	for _, c := range r.customers {
		if c.WorkspaceIdentity != workspaceIdentity {
			continue
		}
		all = append(all, c)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	start := 0
	if !cursor.IsZero() {
		for i, c := range all {
			if c.CreatedAt.Before(cursor.CreatedAt) ||
				(c.CreatedAt.Equal(cursor.CreatedAt) && c.ID.String() < cursor.ID.String()) {
				start = i
				break
			}
			start = len(all)
		}
	}

	rest := all[start:]
	page := CustomerPage{}
	if len(rest) > limit {
		page.Customers = rest[:limit]
		last := page.Customers[limit-1]
		page.NextCursor = Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	} else {
		page.Customers = rest
	}

	return page, nil
}

// WithTx is a no-op for the in-memory repository
func (r *InMemCustomerRepository) WithTx(tx interface{}) CustomerRepository {
	return r
}
