package client

import (
	"context"
	"log/slog"
	"net/http"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
	"github.com/Meetparmar40/tailors-track/pkg/workspace"
)

// WorkspaceHeader carries the identity of the workspace the caller wants to
// act on. When absent the caller operates on their own workspace.
const WorkspaceHeader = "X-Workspace-Id"

var (
	ScopeKey = &contextKey{"WorkspaceScope"}
)

// Scope is the resolved workspace context for a single request. Every data
// operation downstream must filter by Effective and nothing else; Caller is
// retained for audit logging only.
type Scope struct {
	Caller         string
	Effective      string
	Role           workspace.Role
	IsOwnWorkspace bool
}

// CanWrite reports whether the resolved role permits mutating operations.
func (s Scope) CanWrite() bool {
	return s.Role.CanWrite()
}

// AccessResolver resolves a caller/target pair into workspace access.
type AccessResolver interface {
	Resolve(ctx context.Context, callerIdentity, targetIdentity string) (workspace.ResolvedAccess, error)
}

// WorkspaceScopeMiddleware resolves the target workspace on every request.
// Resolution is never cached across requests, so a revoked delegation takes
// effect on the next call. Must be mounted after AuthAccountMiddleware.
func WorkspaceScopeMiddleware(resolver AccessResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authAccount := GetAuthAccount(r.Context())
			if authAccount == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			target := r.Header.Get(WorkspaceHeader)
			access, err := resolver.Resolve(r.Context(), authAccount.Identity, target)
			if err != nil {
				if errs.IsCode(err, errs.ErrCodeAccessDenied) {
					slog.Warn("workspace access denied", "caller", authAccount.Identity, "target", target)
					http.Error(w, "Forbidden: no access to workspace", http.StatusForbidden)
					return
				}
				if errs.IsCode(err, errs.ErrCodeUnauthorized) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				slog.Error("workspace resolution failed", "caller", authAccount.Identity, "target", target, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			scope := &Scope{
				Caller:         authAccount.Identity,
				Effective:      access.Effective,
				Role:           access.Role,
				IsOwnWorkspace: access.IsOwnWorkspace,
			}

			ctx := context.WithValue(r.Context(), ScopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetScope returns the resolved workspace scope from the request context, or
// nil if the request did not pass through WorkspaceScopeMiddleware.
func GetScope(ctx context.Context) *Scope {
	scope, ok := ctx.Value(ScopeKey).(*Scope)
	if !ok {
		return nil
	}
	return scope
}

// RequireWrite rejects mutating requests from read-only roles. Returns 403
// Forbidden when the resolved role is viewer or unknown. Must be used after
// WorkspaceScopeMiddleware.
func RequireWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := GetScope(r.Context())
		if scope == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !scope.CanWrite() {
			slog.Warn("write rejected for read-only role",
				"caller", scope.Caller,
				"workspace", scope.Effective,
				"role", scope.Role)
			http.Error(w, "Forbidden: read-only access", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
