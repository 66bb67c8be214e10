package workspace

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	dbName := "tailors_db"
	dbUser := "tailors"
	dbPassword := "pwd"

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "tailors_db.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestPostgresDelegationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresDelegationRepository(pool)

	created, err := repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: "owner-1",
		AdminIdentity: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, created.Role)
	assert.Equal(t, StatusActive, created.Status)

	got, err := repo.GetDelegation(ctx, "owner-1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Partial update: role only, status untouched
	viewer := RoleViewer
	updated, err := repo.UpdateDelegation(ctx, "owner-1", "admin-1", UpdateDelegationParams{Role: &viewer})
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, updated.Role)
	assert.Equal(t, StatusActive, updated.Status)

	// Partial update: status only, role untouched
	revoked := StatusRevoked
	updated, err = repo.UpdateDelegation(ctx, "owner-1", "admin-1", UpdateDelegationParams{Status: &revoked})
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, updated.Role)
	assert.Equal(t, StatusRevoked, updated.Status)

	err = repo.DeleteDelegation(ctx, "owner-1", "admin-1")
	require.NoError(t, err)

	_, err = repo.GetDelegation(ctx, "owner-1", "admin-1")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeNotFound))
}

func TestPostgresDelegationConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresDelegationRepository(pool)

	_, err := repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: "owner-1",
		AdminIdentity: "admin-1",
	})
	require.NoError(t, err)

	// Unique constraint on the pair
	_, err = repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: "owner-1",
		AdminIdentity: "admin-1",
		Role:          RoleViewer,
	})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeAlreadyDelegated))

	// Check constraint rejects self-delegation at the store level
	_, err = repo.CreateDelegation(ctx, Delegation{
		OwnerIdentity: "owner-1",
		AdminIdentity: "owner-1",
	})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeSelfDelegation))
}

func TestPostgresDelegationConcurrentCreates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresDelegationRepository(pool)

	// Concurrent creates for the same pair race on the unique constraint;
	// exactly one row wins
	const attempts = 8
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := repo.CreateDelegation(ctx, Delegation{
				OwnerIdentity: "owner-1",
				AdminIdentity: "admin-1",
			})
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
			t.Fatalf("unexpected create error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	rows, err := repo.FindDelegationsByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPostgresDelegationListings(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresDelegationRepository(pool)

	_, err := repo.CreateDelegation(ctx, Delegation{OwnerIdentity: "owner-1", AdminIdentity: "admin-1"})
	require.NoError(t, err)
	_, err = repo.CreateDelegation(ctx, Delegation{OwnerIdentity: "owner-1", AdminIdentity: "admin-2", Role: RoleViewer})
	require.NoError(t, err)
	_, err = repo.CreateDelegation(ctx, Delegation{OwnerIdentity: "owner-2", AdminIdentity: "admin-1"})
	require.NoError(t, err)

	revoked := StatusRevoked
	_, err = repo.UpdateDelegation(ctx, "owner-2", "admin-1", UpdateDelegationParams{Status: &revoked})
	require.NoError(t, err)

	// Owner listing includes revoked rows
	byOwner, err := repo.FindDelegationsByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	// Admin listing filters to active rows only
	byAdmin, err := repo.FindActiveDelegationsByAdmin(ctx, "admin-1")
	require.NoError(t, err)
	require.Len(t, byAdmin, 1)
	assert.Equal(t, "owner-1", byAdmin[0].OwnerIdentity)
}
