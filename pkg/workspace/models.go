package workspace

import (
	"time"

	"github.com/google/uuid"

	"github.com/Meetparmar40/tailors-track/pkg/account"
)

// Role is the label attached to a delegation. The set is open: unknown
// values are stored as-is and treated as read-only.
type Role string

const (
	// RoleOwner is never stored; it is the resolved role of an identity
	// acting on its own workspace.
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// DefaultRole is assigned when a grant does not specify a role
const DefaultRole = RoleAdmin

// CanWrite reports whether the role allows mutating workspace data.
// Unknown role tags default to read-only.
func (r Role) CanWrite() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor:
		return true
	default:
		return false
	}
}

// Status of a delegation. A revoked delegation authorizes nothing; the row
// stays around for audit until it is hard-deleted.
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Delegation represents "admin identity may act on behalf of owner identity".
// At most one row exists per (owner, admin) pair.
type Delegation struct {
	ID            uuid.UUID `json:"id"`
	OwnerIdentity string    `json:"owner_identity"`
	AdminIdentity string    `json:"admin_identity"`
	Role          Role      `json:"role"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsActive reports whether the delegation currently authorizes access
func (d Delegation) IsActive() bool {
	return d.Status == StatusActive
}

// UpdateDelegationParams is a partial update: nil fields keep their prior
// value exactly. Omitting Status never reactivates or revokes.
type UpdateDelegationParams struct {
	Role   *Role
	Status *Status
}

// ResolvedAccess is the outcome of a successful access resolution. Effective
// is the identity all downstream data operations must scope by.
type ResolvedAccess struct {
	Effective      string `json:"effectiveIdentity"`
	Role           Role   `json:"role"`
	IsOwnWorkspace bool   `json:"isOwnWorkspace"`
}

// AdminGrant pairs a delegation with the admin's public profile for listings
type AdminGrant struct {
	Delegation Delegation      `json:"delegation"`
	Profile    account.Profile `json:"profile"`
}

// WorkspaceEntry describes one workspace an identity can act on
type WorkspaceEntry struct {
	Delegation     *Delegation     `json:"delegation,omitempty"`
	Profile        account.Profile `json:"profile"`
	Role           Role            `json:"role"`
	IsOwnWorkspace bool            `json:"isOwnWorkspace"`
}

// AccessibleWorkspaces is the full answer to "whose data may I act on":
// always the caller's own workspace plus any active delegations.
type AccessibleWorkspaces struct {
	OwnWorkspace     WorkspaceEntry   `json:"ownWorkspace"`
	SharedWorkspaces []WorkspaceEntry `json:"sharedWorkspaces"`
}
