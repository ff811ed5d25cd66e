package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProductService(env.productRepo)
	ctx := context.Background()

	monitor := env.createProduct(t, "Monitor", 200000, 20)
	env.createProduct(t, "Cable", 30000, 0)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 20, products[0].DiscountPercent)
	assert.True(t, decimal.NewFromInt(160000).Equal(products[0].DiscountedPrice))
	assert.Equal(t, 0, products[1].DiscountPercent)
	assert.True(t, decimal.NewFromInt(30000).Equal(products[1].DiscountedPrice))

	view, err := svc.GetProductByID(ctx, monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monitor", view.Name)

	_, err = svc.GetProductByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
