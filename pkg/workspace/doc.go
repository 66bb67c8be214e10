// Package workspace provides multi-tenant workspace delegation for
// tailors-track.
//
// An account owner can grant other accounts access to their workspace (the
// owner's full dataset: customers, orders, measurements, settings) with a
// role and an active/revoked status. Any grantee can then switch into the
// owner's workspace so that all subsequent reads and writes act on the
// owner's data.
//
// # Overview
//
// The workspace package provides:
//   - Delegation storage keyed by the unique (owner, admin) pair
//   - Grant / update / revoke / remove operations with email-based targeting
//   - Listings of admins per owner and accessible workspaces per admin
//   - Access resolution: caller + requested target -> effective identity
//
// # Basic Usage
//
//	import "github.com/Meetparmar40/tailors-track/pkg/workspace"
//
//	repo := workspace.NewPostgresDelegationRepository(pool)
//	service := workspace.NewDelegationService(repo, accountService)
//	resolver := workspace.NewAccessResolver(repo)
//
//	// Owner shares their workspace
//	grant, err := service.Grant(ctx, ownerIdentity, "helper@example.com", workspace.RoleAdmin)
//
//	// On every scoped request
//	access, err := resolver.Resolve(ctx, callerIdentity, targetIdentity)
//	if err != nil {
//		// deny; never fall back to the caller's own workspace
//	}
//	rows := customerRepo.FindCustomers(ctx, access.Effective, ...)
//
// # Security Model
//
// Resolve is the single enforcement point. Handlers must never scope data by
// a client-asserted workspace identity without resolving it first, and must
// re-resolve on every request: a cached effective identity is only ever a
// hint, because revocation takes effect on the next resolution. Delegations
// do not compose: if A delegates to B and B delegates to C, C gains nothing
// on A's workspace.
package workspace
