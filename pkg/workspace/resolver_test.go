package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// failingRepository errors on every call; used to prove which paths touch
// the store and that store failures never leak access.
type failingRepository struct {
	DelegationRepository
}

var errStoreDown = errors.New("connection refused")

func (r *failingRepository) GetDelegation(ctx context.Context, ownerIdentity, adminIdentity string) (Delegation, error) {
	return Delegation{}, errStoreDown
}

func TestResolveOwnWorkspaceSkipsStore(t *testing.T) {
	ctx := context.Background()
	// The repo fails on any lookup, so a passing self-resolution proves
	// the store is never consulted.
	resolver := NewAccessResolver(&failingRepository{})

	access, err := resolver.Resolve(ctx, "owner-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", access.Effective)
	assert.Equal(t, RoleOwner, access.Role)
	assert.True(t, access.IsOwnWorkspace)

	// Empty target means own workspace too
	access, err = resolver.Resolve(ctx, "owner-1", "")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", access.Effective)
	assert.True(t, access.IsOwnWorkspace)
}

func TestResolveEmptyCaller(t *testing.T) {
	ctx := context.Background()
	resolver := NewAccessResolver(NewInMemDelegationRepository())

	_, err := resolver.Resolve(ctx, "", "owner-1")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeUnauthorized))
}

func TestResolveNoDelegation(t *testing.T) {
	ctx := context.Background()
	resolver := NewAccessResolver(NewInMemDelegationRepository())

	_, err := resolver.Resolve(ctx, "admin-1", "owner-1")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAccessDenied))
}

func TestResolveActiveDelegation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	resolver := NewAccessResolver(repo)

	_, err := repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: "owner-1",
		AdminIdentity: "admin-1",
		Role:          RoleEditor,
	})
	require.NoError(t, err)

	access, err := resolver.Resolve(ctx, "admin-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", access.Effective)
	assert.Equal(t, RoleEditor, access.Role)
	assert.False(t, access.IsOwnWorkspace)
}

func TestResolveRevokedDelegation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	resolver := NewAccessResolver(repo)

	_, err := repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: "owner-1",
		AdminIdentity: "admin-1",
	})
	require.NoError(t, err)

	_, err = resolver.Resolve(ctx, "admin-1", "owner-1")
	require.NoError(t, err)

	// Revocation applies on the very next resolve, soft or hard
	revoked := StatusRevoked
	_, err = repo.UpdateDelegation(ctx, "owner-1", "admin-1", UpdateDelegationParams{Status: &revoked})
	require.NoError(t, err)

	_, err = resolver.Resolve(ctx, "admin-1", "owner-1")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAccessDenied))
}

func TestResolveDeletedDelegation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	resolver := NewAccessResolver(repo)

	_, err := repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: "owner-1",
		AdminIdentity: "admin-1",
	})
	require.NoError(t, err)

	err = repo.DeleteDelegation(ctx, "owner-1", "admin-1")
	require.NoError(t, err)

	_, err = resolver.Resolve(ctx, "admin-1", "owner-1")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAccessDenied))
}

func TestResolveNotTransitive(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	resolver := NewAccessResolver(repo)

	// a may act for b, b may act for c
	_, err := repo.CreateDelegation(ctx, Delegation{OwnerIdentity: "b", AdminIdentity: "a"})
	require.NoError(t, err)
	_, err = repo.CreateDelegation(ctx, Delegation{OwnerIdentity: "c", AdminIdentity: "b"})
	require.NoError(t, err)

	// a may not act for c
	_, err = resolver.Resolve(ctx, "a", "c")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAccessDenied))
}

func TestResolveDirectionMatters(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	resolver := NewAccessResolver(repo)

	_, err := repo.CreateDelegation(ctx, Delegation{OwnerIdentity: "owner-1", AdminIdentity: "admin-1"})
	require.NoError(t, err)

	// The grant runs one way only
	_, err = resolver.Resolve(ctx, "owner-1", "admin-1")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAccessDenied))
}

func TestResolveStoreFailureIsNotAccessDenied(t *testing.T) {
	ctx := context.Background()
	resolver := NewAccessResolver(&failingRepository{})

	_, err := resolver.Resolve(ctx, "admin-1", "owner-1")
	require.Error(t, err)
	assert.False(t, errs.IsCode(err, errs.ErrCodeAccessDenied))
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGrantSwitchRevokeScenario(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	directory := newFakeDirectory(ownerProfile, adminProfile)
	svc := NewDelegationService(repo, directory)
	resolver := NewAccessResolver(repo)

	// Grant
	grant, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, "")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, grant.Delegation.Status)

	// Switch into the owner's workspace
	access, err := resolver.Resolve(ctx, adminProfile.Identity, ownerProfile.Identity)
	require.NoError(t, err)
	assert.Equal(t, ownerProfile.Identity, access.Effective)

	// Revoke, then the next resolve is denied
	_, err = svc.Revoke(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.NoError(t, err)

	_, err = resolver.Resolve(ctx, adminProfile.Identity, ownerProfile.Identity)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAccessDenied))
}
