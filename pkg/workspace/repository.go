package workspace

import (
	"context"
)

// DelegationRepository defines the interface for delegation storage.
// Uniqueness of the (owner, admin) pair is enforced by the store itself, not
// by check-then-insert in callers: two concurrent creates for the same pair
// must yield exactly one success.
//
// Every mutation writes through immediately. There is deliberately no cache
// in front of this interface; revocation correctness depends on each read
// seeing the latest committed state.
type DelegationRepository interface {
	CreateDelegation(ctx context.Context, delegation Delegation) (Delegation, error)
	GetDelegation(ctx context.Context, ownerIdentity, adminIdentity string) (Delegation, error)
	UpdateDelegation(ctx context.Context, ownerIdentity, adminIdentity string, params UpdateDelegationParams) (Delegation, error)
	DeleteDelegation(ctx context.Context, ownerIdentity, adminIdentity string) error
	FindDelegationsByOwner(ctx context.Context, ownerIdentity string) ([]Delegation, error)
	FindActiveDelegationsByAdmin(ctx context.Context, adminIdentity string) ([]Delegation, error)

	// Transaction support
	WithTx(tx interface{}) DelegationRepository
}
