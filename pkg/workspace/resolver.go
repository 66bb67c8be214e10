package workspace

import (
	"context"
	"fmt"
	"log/slog"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// AccessResolver decides whether a caller may act as a target workspace and,
// on success, produces the effective identity every downstream data
// operation must scope by.
//
// Resolve is the single enforcement point for workspace access: any handler
// that scopes data by tenant must route the client-supplied target through
// it and use only the returned effective identity. It performs at most one
// store lookup, so it is cheap enough to run on every request, which is
// required because revocation must take effect on the very next request.
type AccessResolver struct {
	repo DelegationRepository
}

// NewAccessResolver creates a new access resolver
func NewAccessResolver(repo DelegationRepository) *AccessResolver {
	return &AccessResolver{repo: repo}
}

// Resolve decides whether callerIdentity may act as targetIdentity.
//
// Acting on your own workspace is axiomatic, not a grant: the self case
// succeeds without consulting the store. Everything else requires a direct,
// active delegation edge; there is no transitivity and no caching.
//
// ACCESS_DENIED is deliberately uninformative: an absent grant, a revoked
// grant, and an unknown target all produce the same answer so that probing
// cannot reveal the existence of other workspaces. Infrastructure failures
// are returned as-is and must never be downgraded to a successful own-
// workspace resolution by callers.
func (r *AccessResolver) Resolve(ctx context.Context, callerIdentity, targetIdentity string) (ResolvedAccess, error) {
	if callerIdentity == "" {
		return ResolvedAccess{}, errs.New(errs.ErrCodeUnauthorized, "caller identity is required")
	}

	if targetIdentity == "" || callerIdentity == targetIdentity {
		return ResolvedAccess{
			Effective:      callerIdentity,
			Role:           RoleOwner,
			IsOwnWorkspace: true,
		}, nil
	}

	delegation, err := r.repo.GetDelegation(ctx, targetIdentity, callerIdentity)
	if err != nil {
		if errs.IsCode(err, errs.ErrCodeNotFound) {
			slog.Debug("Access denied: no delegation", "caller", callerIdentity, "target", targetIdentity)
			return ResolvedAccess{}, errs.New(errs.ErrCodeAccessDenied, "access denied")
		}
		// Store failure: fail closed, but keep it distinguishable from a
		// deliberate denial.
		return ResolvedAccess{}, fmt.Errorf("failed to resolve workspace access: %w", err)
	}

	if !delegation.IsActive() {
		slog.Debug("Access denied: delegation not active", "caller", callerIdentity, "target", targetIdentity, "status", delegation.Status)
		return ResolvedAccess{}, errs.New(errs.ErrCodeAccessDenied, "access denied")
	}

	return ResolvedAccess{
		Effective:      targetIdentity,
		Role:           delegation.Role,
		IsOwnWorkspace: false,
	}, nil
}
