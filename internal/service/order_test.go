package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

func TestOrderService(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	events := &recordingPublisher{}
	svc := &OrderService{Repo: r, Events: events}
	ctx := context.Background()

	region := seedRegion(t, r, "Tashkent")
	seller := seedUser(t, r, region.ID, "seller", models.RoleSeller)
	buyer := seedUser(t, r, region.ID, "buyer", models.RoleUser)
	stranger := seedUser(t, r, region.ID, "stranger", models.RoleUser)
	admin := seedUser(t, r, region.ID, "admin", models.RoleAdmin)
	category := seedCategory(t, r, "Food")
	apple := seedProduct(t, r, category.ID, seller.ID, "Apple", 3)
	pear := seedProduct(t, r, category.ID, seller.ID, "Pear", 4)

	countRows := func(model any) int64 {
		var n int64
		require.NoError(t, r.DB.Model(model).Count(&n).Error)
		return n
	}

	_, err := svc.Create(ctx, callerOf(buyer), transport.OrderRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, callerOf(buyer), transport.OrderRequest{Items: []transport.OrderItemRequest{
		{ProductID: apple.ID, Count: 1},
		{ProductID: uuid.New(), Count: 1},
	}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, countRows(&models.Order{}))
	assert.Zero(t, countRows(&models.OrderItem{}))

	order, err := svc.Create(ctx, callerOf(buyer), transport.OrderRequest{Items: []transport.OrderItemRequest{
		{ProductID: apple.ID, Count: 2},
		{ProductID: pear.ID, Count: 1},
		{ProductID: apple.ID, Count: 1},
	}})
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, order.UserID)
	require.Len(t, order.Items, 3)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Apple", order.Items[0].Product.Name)

	_, err = svc.Get(ctx, callerOf(stranger), order.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := svc.Get(ctx, callerOf(admin), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	mine, err := svc.Mine(ctx, callerOf(buyer))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	none, err := svc.Mine(ctx, callerOf(stranger))
	require.NoError(t, err)
	assert.Empty(t, none)

	updated, err := svc.Update(ctx, order.ID, transport.OrderRequest{Items: []transport.OrderItemRequest{
		{ProductID: pear.ID, Count: 5},
	}})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, pear.ID, updated.Items[0].ProductID)
	assert.Equal(t, 5, updated.Items[0].Count)
	assert.EqualValues(t, 1, countRows(&models.OrderItem{}))

	_, err = svc.Update(ctx, order.ID+100, transport.OrderRequest{Items: []transport.OrderItemRequest{
		{ProductID: pear.ID, Count: 1},
	}})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, callerOf(stranger), order.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, callerOf(buyer), order.ID))
	assert.Zero(t, countRows(&models.Order{}))
	assert.Zero(t, countRows(&models.OrderItem{}))

	assert.Equal(t, []string{"order_created", "order_updated", "order_deleted"}, events.types())
}
