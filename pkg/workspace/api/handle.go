package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Meetparmar40/tailors-track/pkg/client"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
	"github.com/Meetparmar40/tailors-track/pkg/workspace"
)

// Handle exposes delegation management and workspace switching over HTTP.
// All routes require an authenticated account; delegation management always
// operates on the caller's own workspace regardless of any workspace header.
type Handle struct {
	delegationService *workspace.DelegationService
	resolver          *workspace.AccessResolver
}

func NewHandle(delegationService *workspace.DelegationService, resolver *workspace.AccessResolver) *Handle {
	return &Handle{
		delegationService: delegationService,
		resolver:          resolver,
	}
}

// GrantAdminRequest invites an account, looked up by email, into the
// caller's workspace.
type GrantAdminRequest struct {
	Email string         `json:"email"`
	Role  workspace.Role `json:"role,omitempty"`
}

// UpdateAdminRequest is a partial update; omitted fields are left unchanged.
type UpdateAdminRequest struct {
	Role   *workspace.Role   `json:"role,omitempty"`
	Status *workspace.Status `json:"status,omitempty"`
}

// SwitchWorkspaceRequest names the workspace the caller wants to act on.
type SwitchWorkspaceRequest struct {
	WorkspaceIdentity string `json:"workspace_identity"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ListAdmins returns every delegation granted by the caller, including
// revoked ones so the owner can reactivate them.
func (h *Handle) ListAdmins(w http.ResponseWriter, r *http.Request) {
	authAccount := client.GetAuthAccount(r.Context())
	if authAccount == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	grants, err := h.delegationService.ListAdmins(r.Context(), authAccount.Identity)
	if err != nil {
		slog.Error("Failed to list admins", "owner", authAccount.Identity, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to list admins", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, grants)
}

// GrantAdmin invites an account into the caller's workspace by email.
func (h *Handle) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	authAccount := client.GetAuthAccount(r.Context())
	if authAccount == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req GrantAdminRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	grant, err := h.delegationService.Grant(r.Context(), authAccount.Identity, req.Email, req.Role)
	if err != nil {
		slog.Warn("Failed to grant workspace access", "owner", authAccount.Identity, "email", req.Email, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to grant access", err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, grant)
}

// UpdateAdmin changes an existing delegation's role or status. Omitted
// fields keep their prior value, so a role change never reactivates a
// revoked grant.
func (h *Handle) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	authAccount := client.GetAuthAccount(r.Context())
	if authAccount == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	adminIdentity := chi.URLParam(r, "identity")
	if adminIdentity == "" {
		renderErrorResponse(w, r, http.StatusBadRequest, "Admin identity is required", "")
		return
	}

	var req UpdateAdminRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	delegation, err := h.delegationService.Update(r.Context(), authAccount.Identity, adminIdentity, workspace.UpdateDelegationParams{
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		slog.Warn("Failed to update delegation", "owner", authAccount.Identity, "admin", adminIdentity, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to update delegation", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, delegation)
}

// RevokeAdmin revokes a delegation, or deletes it entirely when the
// permanent query parameter is set. Revocation takes effect on the admin's
// next request.
func (h *Handle) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	authAccount := client.GetAuthAccount(r.Context())
	if authAccount == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	adminIdentity := chi.URLParam(r, "identity")
	if adminIdentity == "" {
		renderErrorResponse(w, r, http.StatusBadRequest, "Admin identity is required", "")
		return
	}

	if r.URL.Query().Get("permanent") == "true" {
		if err := h.delegationService.Remove(r.Context(), authAccount.Identity, adminIdentity); err != nil {
			slog.Warn("Failed to remove delegation", "owner", authAccount.Identity, "admin", adminIdentity, "error", err)
			renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to remove delegation", err.Error())
			return
		}
		render.Status(r, http.StatusNoContent)
		render.NoContent(w, r)
		return
	}

	delegation, err := h.delegationService.Revoke(r.Context(), authAccount.Identity, adminIdentity)
	if err != nil {
		slog.Warn("Failed to revoke delegation", "owner", authAccount.Identity, "admin", adminIdentity, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to revoke delegation", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, delegation)
}

// ListAccessible returns the caller's own workspace plus every workspace
// shared with them through an active delegation.
func (h *Handle) ListAccessible(w http.ResponseWriter, r *http.Request) {
	authAccount := client.GetAuthAccount(r.Context())
	if authAccount == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	workspaces, err := h.delegationService.ListAccessibleWorkspaces(r.Context(), authAccount.Identity)
	if err != nil {
		slog.Error("Failed to list accessible workspaces", "identity", authAccount.Identity, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to list workspaces", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, workspaces)
}

// SwitchWorkspace validates that the caller can act on the requested
// workspace and returns the resolved access. The result is never cached
// server-side; subsequent requests re-resolve from the store.
func (h *Handle) SwitchWorkspace(w http.ResponseWriter, r *http.Request) {
	authAccount := client.GetAuthAccount(r.Context())
	if authAccount == nil {
		renderErrorResponse(w, r, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req SwitchWorkspaceRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	access, err := h.resolver.Resolve(r.Context(), authAccount.Identity, req.WorkspaceIdentity)
	if err != nil {
		if errs.IsCode(err, errs.ErrCodeAccessDenied) {
			slog.Warn("Workspace switch denied", "caller", authAccount.Identity, "target", req.WorkspaceIdentity)
			renderErrorResponse(w, r, http.StatusForbidden, "No access to workspace", "")
			return
		}
		slog.Error("Failed to resolve workspace access", "caller", authAccount.Identity, "target", req.WorkspaceIdentity, "error", err)
		renderErrorResponse(w, r, errs.MapErrorCodeToHTTPStatus(errs.GetCode(err)), "Failed to switch workspace", err.Error())
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, access)
}

// Handler returns a http.Handler for the workspace API
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/admins", h.ListAdmins)
	r.Post("/admins", h.GrantAdmin)
	r.Put("/admins/{identity}", h.UpdateAdmin)
	r.Delete("/admins/{identity}", h.RevokeAdmin)
	r.Get("/accessible", h.ListAccessible)
	r.Post("/switch", h.SwitchWorkspace)

	return r
}

// renderErrorResponse renders an error response with the given status code and message
func renderErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message, errorDetail string) {
	response := ErrorResponse{
		Status:  "error",
		Message: message,
	}

	if errorDetail != "" {
		response.Error = errorDetail
	}

	render.Status(r, statusCode)
	render.JSON(w, r, response)
}
