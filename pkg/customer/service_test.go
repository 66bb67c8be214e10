package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

const testWorkspace = "owner-1"

func TestCustomerCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(NewInMemCustomerRepository())

	created, err := svc.Create(ctx, testWorkspace, Customer{Name: "Asha", Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, testWorkspace, created.WorkspaceIdentity)

	got, err := svc.Get(ctx, testWorkspace, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	phone := "555-0199"
	updated, err := svc.Update(ctx, testWorkspace, created.ID, UpdateCustomerParams{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Asha", updated.Name)

	err = svc.Delete(ctx, testWorkspace, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, testWorkspace, created.ID)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeNotFound))
}

func TestCustomerNameRequired(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(NewInMemCustomerRepository())

	_, err := svc.Create(ctx, testWorkspace, Customer{Name: "  "})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeMissingRequired))
}

func TestCustomerWorkspaceIsolation(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(NewInMemCustomerRepository())

	created, err := svc.Create(ctx, testWorkspace, Customer{Name: "Asha"})
	require.NoError(t, err)

	// Another workspace never sees the row, by id or in listings
	_, err = svc.Get(ctx, "owner-2", created.ID)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeNotFound))

	page, err := svc.List(ctx, "owner-2", "", 0)
	require.NoError(t, err)
	assert.Empty(t, page.Customers)
}

func TestCustomerListPagination(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(NewInMemCustomerRepository())

	names := []string{"A", "B", "C", "D", "E"}
	for _, name := range names {
		_, err := svc.Create(ctx, testWorkspace, Customer{Name: name})
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.List(ctx, testWorkspace, cursor, 2)
		require.NoError(t, err)
		pages++
		for _, c := range page.Customers {
			assert.False(t, seen[c.Name], "duplicate row across pages: %s", c.Name)
			seen[c.Name] = true
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, len(names))
}

func TestCustomerListInvalidCursor(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(NewInMemCustomerRepository())

	_, err := svc.List(ctx, testWorkspace, "not-a-cursor", 0)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidInput))
}
