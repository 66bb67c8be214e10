package workspace

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meetparmar40/tailors-track/pkg/account"
	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// fakeDirectory resolves emails to identities from a fixed map
type fakeDirectory struct {
	accounts map[string]account.Profile
}

func newFakeDirectory(profiles ...account.Profile) *fakeDirectory {
	d := &fakeDirectory{accounts: make(map[string]account.Profile)}
	for _, p := range profiles {
		d.accounts[strings.ToLower(p.Email)] = p
	}
	return d
}

func (d *fakeDirectory) FindByEmail(ctx context.Context, email string) (account.Profile, error) {
	p, ok := d.accounts[strings.ToLower(email)]
	if !ok {
		return account.Profile{}, errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", email)
	}
	return p, nil
}

func (d *fakeDirectory) GetProfile(ctx context.Context, identity string) (account.Profile, error) {
	for _, p := range d.accounts {
		if p.Identity == identity {
			return p, nil
		}
	}
	return account.Profile{}, errs.Newf(errs.ErrCodeAccountNotFound, "account not found: %s", identity)
}

// recordingNotifier captures grant notices
type recordingNotifier struct {
	notices []account.Profile
	fail    bool
}

func (n *recordingNotifier) NotifyGranted(ctx context.Context, grantee, owner account.Profile, role Role) error {
	if n.fail {
		return assert.AnError
	}
	n.notices = append(n.notices, grantee)
	return nil
}

var (
	ownerProfile = account.Profile{Identity: "owner-1", Email: "owner@shop.test", Name: "Owner"}
	adminProfile = account.Profile{Identity: "admin-1", Email: "admin@shop.test", Name: "Admin"}
	otherProfile = account.Profile{Identity: "other-1", Email: "other@shop.test", Name: "Other"}
)

func newTestService(t *testing.T) (*DelegationService, *InMemDelegationRepository, *recordingNotifier) {
	t.Helper()
	repo := NewInMemDelegationRepository()
	directory := newFakeDirectory(ownerProfile, adminProfile, otherProfile)
	notifier := &recordingNotifier{}
	svc := NewDelegationService(repo, directory, WithGrantNotifier(notifier))
	return svc, repo, notifier
}

func TestGrant(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	grant, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, "")
	require.NoError(t, err)

	assert.Equal(t, ownerProfile.Identity, grant.Delegation.OwnerIdentity)
	assert.Equal(t, adminProfile.Identity, grant.Delegation.AdminIdentity)
	assert.Equal(t, DefaultRole, grant.Delegation.Role)
	assert.Equal(t, StatusActive, grant.Delegation.Status)
	assert.Equal(t, adminProfile, grant.Profile)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, adminProfile.Email, notifier.notices[0].Email)
}

func TestGrantUnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Grant(ctx, ownerProfile.Identity, "nobody@shop.test", "")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeTargetNotFound))
}

func TestGrantSelf(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Grant(ctx, ownerProfile.Identity, ownerProfile.Email, "")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeSelfDelegation))
}

func TestGrantDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, RoleEditor)
	require.NoError(t, err)

	// Re-granting the same pair is a create, not an upsert
	_, err = svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, RoleViewer)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAlreadyDelegated))
}

func TestGrantConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	const attempts = 16
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, "")
			results <- err
		}()
	}
	start.Done()

	var successes, conflicts int
	for i := 0; i < attempts; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errs.IsCode(err, errs.ErrCodeAlreadyDelegated):
			conflicts++
		default:
			t.Fatalf("unexpected grant error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	delegation, err := repo.GetDelegation(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, delegation.Status)
}

func TestGrantNotifierFailureDoesNotFailGrant(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	directory := newFakeDirectory(ownerProfile, adminProfile)
	notifier := &recordingNotifier{fail: true}
	svc := NewDelegationService(repo, directory, WithGrantNotifier(notifier))

	grant, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, "")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, grant.Delegation.Status)
}

func TestUpdatePartialPreservesUnsetFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, RoleEditor)
	require.NoError(t, err)

	// Revoke, then change only the role: status must stay revoked
	_, err = svc.Revoke(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.NoError(t, err)

	viewer := RoleViewer
	updated, err := svc.Update(ctx, ownerProfile.Identity, adminProfile.Identity, UpdateDelegationParams{Role: &viewer})
	require.NoError(t, err)

	assert.Equal(t, RoleViewer, updated.Role)
	assert.Equal(t, StatusRevoked, updated.Status)
}

func TestUpdateMissingDelegation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	viewer := RoleViewer
	_, err := svc.Update(ctx, ownerProfile.Identity, adminProfile.Identity, UpdateDelegationParams{Role: &viewer})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeNotFound))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, "")
	require.NoError(t, err)

	err = svc.Remove(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.NoError(t, err)

	_, err = repo.GetDelegation(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeNotFound))

	err = svc.Remove(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeNotFound))
}

func TestListAdminsIncludesRevoked(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, "")
	require.NoError(t, err)
	_, err = svc.Grant(ctx, ownerProfile.Identity, otherProfile.Email, RoleViewer)
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.NoError(t, err)

	grants, err := svc.ListAdmins(ctx, ownerProfile.Identity)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	statuses := map[string]Status{}
	for _, g := range grants {
		statuses[g.Delegation.AdminIdentity] = g.Delegation.Status
	}
	assert.Equal(t, StatusRevoked, statuses[adminProfile.Identity])
	assert.Equal(t, StatusActive, statuses[otherProfile.Identity])
}

func TestListAccessibleWorkspacesFiltersInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemDelegationRepository()
	directory := newFakeDirectory(ownerProfile, adminProfile, otherProfile)
	svc := NewDelegationService(repo, directory)

	// admin-1 gets access to two workspaces, then owner-1 revokes
	_, err := svc.Grant(ctx, ownerProfile.Identity, adminProfile.Email, "")
	require.NoError(t, err)
	_, err = svc.Grant(ctx, otherProfile.Identity, adminProfile.Email, RoleEditor)
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, ownerProfile.Identity, adminProfile.Identity)
	require.NoError(t, err)

	accessible, err := svc.ListAccessibleWorkspaces(ctx, adminProfile.Identity)
	require.NoError(t, err)

	assert.True(t, accessible.OwnWorkspace.IsOwnWorkspace)
	assert.Equal(t, RoleOwner, accessible.OwnWorkspace.Role)
	assert.Equal(t, adminProfile.Identity, accessible.OwnWorkspace.Profile.Identity)

	require.Len(t, accessible.SharedWorkspaces, 1)
	assert.Equal(t, otherProfile.Identity, accessible.SharedWorkspaces[0].Profile.Identity)
	assert.Equal(t, RoleEditor, accessible.SharedWorkspaces[0].Role)
	assert.False(t, accessible.SharedWorkspaces[0].IsOwnWorkspace)
}
