package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkspace = "owner-1"

func TestGetDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(NewInMemSettingsRepository())

	s, err := svc.Get(ctx, testWorkspace)
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, s.Currency)
	assert.Equal(t, DefaultMeasurementUnit, s.MeasurementUnit)
	assert.Equal(t, DefaultOrderPrefix, s.OrderPrefix)
	assert.Empty(t, s.ShopName)
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(NewInMemSettingsRepository())

	shopName := "Meet Tailors"
	updated, err := svc.Update(ctx, testWorkspace, UpdateSettingsParams{ShopName: &shopName})
	require.NoError(t, err)
	assert.Equal(t, "Meet Tailors", updated.ShopName)
	assert.Equal(t, DefaultCurrency, updated.Currency)

	// A later partial update keeps earlier fields
	currency := "INR"
	updated, err = svc.Update(ctx, testWorkspace, UpdateSettingsParams{Currency: &currency})
	require.NoError(t, err)
	assert.Equal(t, "Meet Tailors", updated.ShopName)
	assert.Equal(t, "INR", updated.Currency)
}

func TestSettingsPerWorkspace(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(NewInMemSettingsRepository())

	prefix := "MT"
	_, err := svc.Update(ctx, testWorkspace, UpdateSettingsParams{OrderPrefix: &prefix})
	require.NoError(t, err)

	other, err := svc.Get(ctx, "owner-2")
	require.NoError(t, err)
	assert.Equal(t, DefaultOrderPrefix, other.OrderPrefix)
}

func TestOrderPrefix(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(NewInMemSettingsRepository())

	prefix, err := svc.OrderPrefix(ctx, testWorkspace)
	require.NoError(t, err)
	assert.Equal(t, DefaultOrderPrefix, prefix)

	custom := "MT"
	_, err = svc.Update(ctx, testWorkspace, UpdateSettingsParams{OrderPrefix: &custom})
	require.NoError(t, err)

	prefix, err = svc.OrderPrefix(ctx, testWorkspace)
	require.NoError(t, err)
	assert.Equal(t, "MT", prefix)
}
