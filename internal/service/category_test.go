package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

func TestCategoryService(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	index := newFakeIndex()
	svc := &CategoryService{Repo: r, Products: &ProductService{Repo: r, Index: index}}
	ctx := context.Background()

	empty, err := svc.Create(ctx, transport.CategoryRequest{Name: "Garden"})
	require.NoError(t, err)
	got, err := svc.Get(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Products)

	category, err := svc.Create(ctx, transport.CategoryRequest{Name: "Laptops"})
	require.NoError(t, err)

	region := seedRegion(t, r, "Tashkent")
	seller := seedUser(t, r, region.ID, "seller", models.RoleSeller)
	buyer := seedUser(t, r, region.ID, "buyer", models.RoleUser)
	product := seedProduct(t, r, category.ID, seller.ID, "ThinkPad", 1500)
	seedComment(t, r, product.ID, buyer.ID, 5)
	seedComment(t, r, product.ID, buyer.ID, 4)

	got, err = svc.Get(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "ThinkPad", got.Products[0].Name)
	assert.InDelta(t, 4.5, got.Products[0].Star, 1e-9)

	q, err := CategoryQuery(url.Values{"name": {"lap"}})
	require.NoError(t, err)
	page, err := svc.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Laptops", page.Data[0].Name)
	assert.Nil(t, page.Data[0].Products)

	renamed, err := svc.Update(ctx, category.ID, transport.PatchCategoryRequest{Name: ptr("Notebooks")})
	require.NoError(t, err)
	assert.Equal(t, "Notebooks", renamed.Name)
	assert.Nil(t, renamed.Products)

	_, err = svc.Update(ctx, category.ID+99, transport.PatchCategoryRequest{Name: ptr("Nothing")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, category.ID))
	var products int64
	require.NoError(t, r.DB.Model(&models.Product{}).Count(&products).Error)
	assert.Zero(t, products)
	assert.Equal(t, []string{product.ID.String()}, index.deleted)

	_, err = svc.Get(ctx, category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
