package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Meetparmar40/tailors-track/pkg/account"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// GrantNotifier delivers a notice to the person who was just granted access.
// Delivery is best-effort: a failed notice never fails the grant.
type GrantNotifier interface {
	NotifyGranted(ctx context.Context, grantee account.Profile, owner account.Profile, role Role) error
}

// DelegationService manages the delegations of a workspace: who may act on
// an owner's behalf, with what role, and whether the grant is still live.
type DelegationService struct {
	repo      DelegationRepository
	directory account.Directory
	notifier  GrantNotifier
}

// DelegationServiceOption configures a DelegationService
type DelegationServiceOption func(*DelegationService)

// WithGrantNotifier attaches a notifier for new grants
func WithGrantNotifier(notifier GrantNotifier) DelegationServiceOption {
	return func(s *DelegationService) {
		s.notifier = notifier
	}
}

// NewDelegationService creates a new delegation service
func NewDelegationService(repo DelegationRepository, directory account.Directory, opts ...DelegationServiceOption) *DelegationService {
	s := &DelegationService{
		repo:      repo,
		directory: directory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grant resolves targetEmail through the account directory and creates an
// active delegation from ownerIdentity to the resolved identity. This is a
// create, not an upsert: re-granting an existing relationship is ambiguous
// intent and fails with ALREADY_DELEGATED so the caller can switch to an
// update instead.
func (s *DelegationService) Grant(ctx context.Context, ownerIdentity, targetEmail string, role Role) (AdminGrant, error) {
	if targetEmail == "" {
		return AdminGrant{}, errs.New(errs.ErrCodeMissingRequired, "email is required")
	}

	target, err := s.directory.FindByEmail(ctx, targetEmail)
	if err != nil {
		if errs.IsCode(err, errs.ErrCodeAccountNotFound) {
			slog.Debug("Grant target not found", "email", targetEmail)
			return AdminGrant{}, errs.New(errs.ErrCodeTargetNotFound, "no account found for that email")
		}
		return AdminGrant{}, fmt.Errorf("failed to resolve grant target: %w", err)
	}

	if target.Identity == ownerIdentity {
		return AdminGrant{}, errs.New(errs.ErrCodeSelfDelegation, "cannot delegate to yourself")
	}

	if role == "" {
		role = DefaultRole
	}

	delegation, err := s.repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: ownerIdentity,
		AdminIdentity: target.Identity,
		Role:          role,
		Status:        StatusActive,
	})
	if err != nil {
		return AdminGrant{}, err
	}

	slog.Info("Delegation granted", "owner", ownerIdentity, "admin", target.Identity, "role", role)

	if s.notifier != nil {
		owner, profErr := s.directory.GetProfile(ctx, ownerIdentity)
		if profErr != nil {
			slog.Warn("Failed to load owner profile for grant notice", "owner", ownerIdentity, "err", profErr)
		} else if notifyErr := s.notifier.NotifyGranted(ctx, target, owner, role); notifyErr != nil {
			slog.Warn("Failed to send grant notice", "to", target.Email, "err", notifyErr)
		}
	}

	return AdminGrant{Delegation: delegation, Profile: target}, nil
}

// Update applies a partial update to an existing delegation. Fields left nil
// keep their stored value: a role change never reactivates a revoked grant.
func (s *DelegationService) Update(ctx context.Context, ownerIdentity, adminIdentity string, params UpdateDelegationParams) (Delegation, error) {
	delegation, err := s.repo.UpdateDelegation(ctx, ownerIdentity, adminIdentity, params)
	if err != nil {
		return Delegation{}, err
	}

	slog.Info("Delegation updated", "owner", ownerIdentity, "admin", adminIdentity,
		"role", delegation.Role, "status", delegation.Status)
	return delegation, nil
}

// Revoke soft-revokes a delegation, keeping the row for audit history. The
// next resolution for this pair is denied; there is no cache to lag behind.
func (s *DelegationService) Revoke(ctx context.Context, ownerIdentity, adminIdentity string) (Delegation, error) {
	status := StatusRevoked
	return s.Update(ctx, ownerIdentity, adminIdentity, UpdateDelegationParams{Status: &status})
}

// Remove hard-deletes a delegation
func (s *DelegationService) Remove(ctx context.Context, ownerIdentity, adminIdentity string) error {
	if err := s.repo.DeleteDelegation(ctx, ownerIdentity, adminIdentity); err != nil {
		return err
	}

	slog.Info("Delegation removed", "owner", ownerIdentity, "admin", adminIdentity)
	return nil
}

// ListAdmins returns everyone the owner has delegated to, newest grant
// first, decorated with public profiles. Revoked rows are included; the UI
// distinguishes them by status.
func (s *DelegationService) ListAdmins(ctx context.Context, ownerIdentity string) ([]AdminGrant, error) {
	delegations, err := s.repo.FindDelegationsByOwner(ctx, ownerIdentity)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	grants := make([]AdminGrant, 0, len(delegations))
	for _, d := range delegations {
		profile, err := s.directory.GetProfile(ctx, d.AdminIdentity)
		if err != nil {
			slog.Warn("Failed to load admin profile", "admin", d.AdminIdentity, "err", err)
			profile = account.Profile{Identity: d.AdminIdentity}
		}
		grants = append(grants, AdminGrant{Delegation: d, Profile: profile})
	}

	return grants, nil
}

// ListAccessibleWorkspaces returns the caller's own workspace plus every
// workspace shared with them through an active delegation.
func (s *DelegationService) ListAccessibleWorkspaces(ctx context.Context, adminIdentity string) (AccessibleWorkspaces, error) {
	ownProfile, err := s.directory.GetProfile(ctx, adminIdentity)
	if err != nil {
		slog.Warn("Failed to load own profile", "identity", adminIdentity, "err", err)
		ownProfile = account.Profile{Identity: adminIdentity}
	}

	result := AccessibleWorkspaces{
		OwnWorkspace: WorkspaceEntry{
			Profile:        ownProfile,
			Role:           RoleOwner,
			IsOwnWorkspace: true,
		},
		SharedWorkspaces: []WorkspaceEntry{},
	}

	delegations, err := s.repo.FindActiveDelegationsByAdmin(ctx, adminIdentity)
	if err != nil {
		return AccessibleWorkspaces{}, fmt.Errorf("failed to list accessible workspaces: %w", err)
	}

	for _, d := range delegations {
		profile, err := s.directory.GetProfile(ctx, d.OwnerIdentity)
		if err != nil {
			slog.Warn("Failed to load owner profile", "owner", d.OwnerIdentity, "err", err)
			profile = account.Profile{Identity: d.OwnerIdentity}
		}
		result.SharedWorkspaces = append(result.SharedWorkspaces, WorkspaceEntry{
			Delegation:     &d,
			Profile:        profile,
			Role:           d.Role,
			IsOwnWorkspace: false,
		})
	}

	return result, nil
}
