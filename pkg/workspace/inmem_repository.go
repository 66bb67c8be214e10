package workspace

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// InMemDelegationRepository implements DelegationRepository using an
// in-memory map keyed by the (owner, admin) pair. The mutex gives the same
// create-or-conflict atomicity the unique constraint gives in PostgreSQL.
type InMemDelegationRepository struct {
	delegations map[pairKey]Delegation
	mu          sync.Mutex
}

type pairKey struct {
	owner string
	admin string
}

// NewInMemDelegationRepository creates a new in-memory delegation repository
func NewInMemDelegationRepository() *InMemDelegationRepository {
	return &InMemDelegationRepository{
		delegations: make(map[pairKey]Delegation),
	}
}

// CreateDelegation creates a new delegation in memory
func (r *InMemDelegationRepository) CreateDelegation(ctx context.Context, delegation Delegation) (Delegation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if delegation.OwnerIdentity == delegation.AdminIdentity {
		return Delegation{}, errs.New(errs.ErrCodeSelfDelegation, "cannot delegate to yourself")
	}

	key := pairKey{owner: delegation.OwnerIdentity, admin: delegation.AdminIdentity}
	if _, exists := r.delegations[key]; exists {
		slog.Debug("Delegation already exists", "owner", delegation.OwnerIdentity, "admin", delegation.AdminIdentity)
		return Delegation{}, errs.New(errs.ErrCodeAlreadyDelegated, "delegation already exists for this pair")
	}

	now := time.Now().UTC()
	if delegation.ID == uuid.Nil {
		delegation.ID = uuid.New()
	}
	if delegation.Role == "" {
		delegation.Role = DefaultRole
	}
	if delegation.Status == "" {
		delegation.Status = StatusActive
	}
	delegation.CreatedAt = now
	delegation.UpdatedAt = now

	r.delegations[key] = delegation
	slog.Debug("Delegation created", "owner", delegation.OwnerIdentity, "admin", delegation.AdminIdentity)
	return delegation, nil
}

// GetDelegation retrieves the delegation for an (owner, admin) pair
func (r *InMemDelegationRepository) GetDelegation(ctx context.Context, ownerIdentity, adminIdentity string) (Delegation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delegation, exists := r.delegations[pairKey{owner: ownerIdentity, admin: adminIdentity}]
	if !exists {
		return Delegation{}, errs.New(errs.ErrCodeNotFound, "delegation not found")
	}
	return delegation, nil
}

// UpdateDelegation applies a partial update; nil fields keep prior values
func (r *InMemDelegationRepository) UpdateDelegation(ctx context.Context, ownerIdentity, adminIdentity string, params UpdateDelegationParams) (Delegation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{owner: ownerIdentity, admin: adminIdentity}
	delegation, exists := r.delegations[key]
	if !exists {
		return Delegation{}, errs.New(errs.ErrCodeNotFound, "delegation not found")
	}

	if params.Role != nil {
		delegation.Role = *params.Role
	}
	if params.Status != nil {
		delegation.Status = *params.Status
	}
	delegation.UpdatedAt = time.Now().UTC()

	r.delegations[key] = delegation
	return delegation, nil
}

// DeleteDelegation hard-deletes the delegation
func (r *InMemDelegationRepository) DeleteDelegation(ctx context.Context, ownerIdentity, adminIdentity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{owner: ownerIdentity, admin: adminIdentity}
	if _, exists := r.delegations[key]; !exists {
		return errs.New(errs.ErrCodeNotFound, "delegation not found")
	}

	delete(r.delegations, key)
	return nil
}

// FindDelegationsByOwner returns all delegations for an owner, newest first
func (r *InMemDelegationRepository) FindDelegationsByOwner(ctx context.Context, ownerIdentity string) ([]Delegation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var delegations []Delegation
	for key, delegation := range r.delegations {
		if key.owner == ownerIdentity {
			delegations = append(delegations, delegation)
		}
	}

	sort.Slice(delegations, func(i, j int) bool {
		return delegations[i].CreatedAt.After(delegations[j].CreatedAt)
	})

	return delegations, nil
}

// FindActiveDelegationsByAdmin returns active delegations granted to an admin
func (r *InMemDelegationRepository) FindActiveDelegationsByAdmin(ctx context.Context, adminIdentity string) ([]Delegation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var delegations []Delegation
	for key, delegation := range r.delegations {
		if key.admin == adminIdentity && delegation.Status == StatusActive {
			delegations = append(delegations, delegation)
		}
	}

	sort.Slice(delegations, func(i, j int) bool {
		return delegations[i].CreatedAt.After(delegations[j].CreatedAt)
	})

	return delegations, nil
}

// WithTx returns the repository itself; in-memory storage has no transactions
func (r *InMemDelegationRepository) WithTx(tx interface{}) DelegationRepository {
	return r
}
