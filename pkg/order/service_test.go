package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

const testWorkspace = "owner-1"

type staticPrefix string

func (p staticPrefix) OrderPrefix(ctx context.Context, workspaceIdentity string) (string, error) {
	return string(p), nil
}

// fakeCustomers maps customer ids to the workspace that holds them
type fakeCustomers map[uuid.UUID]string

func (f fakeCustomers) Exists(ctx context.Context, workspaceIdentity string, id uuid.UUID) error {
	if f[id] != workspaceIdentity {
		return errs.Newf(errs.ErrCodeNotFound, "customer not found: %s", id)
	}
	return nil
}

func (f fakeCustomers) add(workspaceIdentity string) uuid.UUID {
	id := uuid.New()
	f[id] = workspaceIdentity
	return id
}

func newTestService(customers fakeCustomers) *OrderService {
	return NewOrderService(NewInMemOrderRepository(), staticPrefix("ORD"), customers)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	created, err := svc.Create(ctx, testWorkspace, Order{
		CustomerID:  customers.add(testWorkspace),
		Description: "Sherwani, wedding",
		PriceCents:  250000,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, "ORD-0001", created.Number)

	second, err := svc.Create(ctx, testWorkspace, Order{
		CustomerID:  customers.add(testWorkspace),
		Description: "Two-piece suit",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-0002", second.Number)
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	_, err := svc.Create(ctx, testWorkspace, Order{Description: "no customer"})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeMissingRequired))

	_, err = svc.Create(ctx, testWorkspace, Order{CustomerID: customers.add(testWorkspace)})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeMissingRequired))

	_, err = svc.Create(ctx, testWorkspace, Order{
		CustomerID:  customers.add(testWorkspace),
		Description: "pre-delivered",
		Status:      StatusDelivered,
	})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidInput))
}

func TestCreateOrderRejectsForeignCustomer(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	foreign := customers.add("owner-2")

	// A customer held by another workspace is indistinguishable from an
	// unknown one
	_, err := svc.Create(ctx, testWorkspace, Order{
		CustomerID:  foreign,
		Description: "Suit",
	})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidInput))

	_, err = svc.Create(ctx, testWorkspace, Order{
		CustomerID:  uuid.New(),
		Description: "Suit",
	})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidInput))

	orders, listErr := svc.List(ctx, testWorkspace, OrderFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, orders)
}

func TestOrderStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	created, err := svc.Create(ctx, testWorkspace, Order{
		CustomerID:  customers.add(testWorkspace),
		Description: "Kurta",
	})
	require.NoError(t, err)

	// pending -> in_progress -> ready -> delivered
	for _, next := range []Status{StatusInProgress, StatusReady, StatusDelivered} {
		updated, err := svc.UpdateStatus(ctx, testWorkspace, created.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Delivered is terminal
	_, err = svc.UpdateStatus(ctx, testWorkspace, created.ID, StatusCancelled)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidInput))
}

func TestOrderCancelFromAnyNonTerminalStatus(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	steps := map[Status][]Status{
		StatusPending:    nil,
		StatusInProgress: {StatusInProgress},
		StatusReady:      {StatusInProgress, StatusReady},
	}

	for from, path := range steps {
		created, err := svc.Create(ctx, testWorkspace, Order{
			CustomerID:  customers.add(testWorkspace),
			Description: "Cancel from " + string(from),
		})
		require.NoError(t, err)

		for _, next := range path {
			_, err = svc.UpdateStatus(ctx, testWorkspace, created.ID, next)
			require.NoError(t, err)
		}

		cancelled, err := svc.UpdateStatus(ctx, testWorkspace, created.ID, StatusCancelled)
		require.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, StatusCancelled, cancelled.Status)
	}
}

func TestOrderStatusInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	created, err := svc.Create(ctx, testWorkspace, Order{
		CustomerID:  customers.add(testWorkspace),
		Description: "Blouse",
	})
	require.NoError(t, err)

	// pending cannot jump straight to delivered
	_, err = svc.UpdateStatus(ctx, testWorkspace, created.ID, StatusDelivered)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidInput))

	// unknown status
	_, err = svc.UpdateStatus(ctx, testWorkspace, created.ID, Status("misplaced"))
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidInput))
}

func TestOrderReworkPath(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	created, err := svc.Create(ctx, testWorkspace, Order{
		CustomerID:  customers.add(testWorkspace),
		Description: "Lehenga",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, testWorkspace, created.ID, StatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, testWorkspace, created.ID, StatusReady)
	require.NoError(t, err)

	// A fitting can send a ready order back to the bench
	updated, err := svc.UpdateStatus(ctx, testWorkspace, created.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)
}

func TestOrderPartialUpdate(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	created, err := svc.Create(ctx, testWorkspace, Order{
		CustomerID:  customers.add(testWorkspace),
		Description: "Shirt",
		PriceCents:  50000,
	})
	require.NoError(t, err)

	advance := int64(20000)
	updated, err := svc.Update(ctx, testWorkspace, created.ID, UpdateOrderParams{AdvanceCents: &advance})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.AdvanceCents)
	assert.Equal(t, int64(50000), updated.PriceCents)
	assert.Equal(t, "Shirt", updated.Description)
}

func TestOrderListFilter(t *testing.T) {
	ctx := context.Background()
	customers := fakeCustomers{}
	svc := newTestService(customers)

	customerID := customers.add(testWorkspace)
	first, err := svc.Create(ctx, testWorkspace, Order{CustomerID: customerID, Description: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testWorkspace, Order{CustomerID: customers.add(testWorkspace), Description: "B"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, testWorkspace, first.ID, StatusInProgress)
	require.NoError(t, err)

	inProgress := StatusInProgress
	byStatus, err := svc.List(ctx, testWorkspace, OrderFilter{Status: &inProgress})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, first.ID, byStatus[0].ID)

	byCustomer, err := svc.List(ctx, testWorkspace, OrderFilter{CustomerID: &customerID})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, first.ID, byCustomer[0].ID)

	// Other workspaces see nothing
	other, err := svc.List(ctx, "owner-2", OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}
