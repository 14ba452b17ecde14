package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type fakeIndex struct {
	docs      map[uuid.UUID]string
	deleted   []string
	hits      []string
	searchErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[uuid.UUID]string{}}
}

func (f *fakeIndex) Upsert(_ context.Context, p *models.Product) error {
	f.docs[p.ID] = p.Name
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []string, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.hits)), f.hits, nil
}

type productFixture struct {
	svc      *ProductService
	events   *recordingPublisher
	index    *fakeIndex
	category *models.Category
	seller   *models.User
	other    *models.User
	admin    *models.User
	buyer    *models.User
}

func newProductFixture(t *testing.T) productFixture {
	t.Helper()
	r := newTestRepo(t)
	region := seedRegion(t, r, "Bukhara")
	events := &recordingPublisher{}
	index := newFakeIndex()
	return productFixture{
		svc:      &ProductService{Repo: r, Index: index, Events: events},
		events:   events,
		index:    index,
		category: seedCategory(t, r, "Phones"),
		seller:   seedUser(t, r, region.ID, "seller", models.RoleSeller),
		other:    seedUser(t, r, region.ID, "other", models.RoleSeller),
		admin:    seedUser(t, r, region.ID, "admin", models.RoleAdmin),
		buyer:    seedUser(t, r, region.ID, "buyer", models.RoleUser),
	}
}

func createReq(categoryID uint) transport.CreateProductRequest {
	return transport.CreateProductRequest{
		Name:        "Pixel 9",
		Description: "a phone with a decent camera",
		Price:       ptr(int64(1200)),
		Image:       "http://localhost:8080/image/pixel.png",
		CategoryID:  categoryID,
	}
}

func TestProductService_Create(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, callerOf(f.seller), createReq(f.category.ID))
	require.NoError(t, err)

	assert.Equal(t, f.seller.ID, product.AuthorID)
	assert.Zero(t, product.Star)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Phones", product.Category.Name)
	require.NotNil(t, product.Author)
	assert.Equal(t, "seller", product.Author.Name)
	assert.Empty(t, product.Author.Email)

	assert.Equal(t, "Pixel 9", f.index.docs[product.ID])
	assert.Equal(t, []string{"product_created"}, f.events.types())
}

func TestProductService_Create_Rejects(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t)
	ctx := context.Background()

	req := createReq(f.category.ID + 50)
	_, err := f.svc.Create(ctx, callerOf(f.seller), req)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "category not found", Message(err))

	req = createReq(f.category.ID)
	req.Price = ptr(int64(-1))
	_, err = f.svc.Create(ctx, callerOf(f.seller), req)
	assert.ErrorIs(t, err, ErrValidation)

	req = createReq(f.category.ID)
	req.Price = nil
	_, err = f.svc.Create(ctx, callerOf(f.seller), req)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "price is required", Message(err))
}

func TestProductService_Update(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t)
	ctx := context.Background()
	product := seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, "Galaxy", 900)

	_, err := f.svc.Update(ctx, callerOf(f.other), product.ID, transport.PatchProductRequest{Name: ptr("Stolen")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Update(ctx, callerOf(f.seller), product.ID, transport.PatchProductRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := f.svc.Update(ctx, callerOf(f.admin), product.ID, transport.PatchProductRequest{
		Name:  ptr("Galaxy S25"),
		Price: ptr(int64(0)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Galaxy S25", updated.Name)
	assert.Zero(t, updated.Price)
	assert.Equal(t, f.seller.ID, updated.AuthorID, "author is kept when someone else edits")
	assert.Equal(t, "a product used in tests", updated.Description)

	_, err = f.svc.Update(ctx, callerOf(f.seller), uuid.New(), transport.PatchProductRequest{Name: ptr("Nope")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t)
	ctx := context.Background()
	product := seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, "Nokia", 100)
	seedComment(t, f.svc.Repo, product.ID, f.buyer.ID, 4)

	assert.ErrorIs(t, f.svc.Delete(ctx, callerOf(f.buyer), product.ID), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, callerOf(f.seller), product.ID))

	_, err := f.svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{product.ID.String()}, f.index.deleted)

	var comments int64
	require.NoError(t, f.svc.Repo.DB.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, comments)

	assert.ErrorIs(t, f.svc.Delete(ctx, callerOf(f.seller), product.ID), ErrNotFound)
}

func TestProductService_Star(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t)
	ctx := context.Background()
	rated := seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, "Rated", 10)
	unrated := seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, "Unrated", 20)

	for _, star := range []int{5, 3, 4} {
		seedComment(t, f.svc.Repo, rated.ID, f.buyer.ID, star)
	}

	got, err := f.svc.Get(ctx, rated.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.Star, 1e-9)

	got, err = f.svc.Get(ctx, unrated.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Star)

	page, err := f.svc.List(ctx, listQuery(t, url.Values{}))
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.InDelta(t, 4.0, page.Data[0].Star, 1e-9)
	assert.Zero(t, page.Data[1].Star)
}

func TestStarAverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, count int64
		want         float64
	}{
		{0, 0, 0},
		{12, 3, 4},
		{9, 2, 4.5},
		{14, 3, 4.7},
		{13, 3, 4.3},
		{1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.count), func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, StarAverage(tt.total, tt.count), 1e-9)
		})
	}
}

func listQuery(t *testing.T, v url.Values) listing.Query {
	t.Helper()
	q, err := ProductQuery(v)
	require.NoError(t, err)
	return q
}

func TestProductService_ListPaginationAndFilters(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t)
	ctx := context.Background()
	for i := 1; i <= 25; i++ {
		seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, fmt.Sprintf("item-%02d", i), int64(i*10))
	}

	page, err := f.svc.List(ctx, listQuery(t, url.Values{"page": {"2"}, "limit": {"10"}}))
	require.NoError(t, err)
	assert.EqualValues(t, 25, page.Total)
	require.Len(t, page.Data, 10)
	assert.EqualValues(t, 110, page.Data[0].Price)
	assert.EqualValues(t, 200, page.Data[9].Price)
	require.NotNil(t, page.Page)
	require.NotNil(t, page.TotalPages)
	assert.Equal(t, 2, *page.Page)
	assert.Equal(t, 3, *page.TotalPages)

	page, err = f.svc.List(ctx, listQuery(t, url.Values{"min_price": {"100"}, "max_price": {"150"}, "sort": {"-price"}}))
	require.NoError(t, err)
	assert.EqualValues(t, 6, page.Total)
	assert.Nil(t, page.Page)
	assert.EqualValues(t, 150, page.Data[0].Price)

	page, err = f.svc.List(ctx, listQuery(t, url.Values{"name": {"ITEM-2"}}))
	require.NoError(t, err)
	assert.EqualValues(t, 6, page.Total)

	_, err = ProductQuery(url.Values{"sort": {"password"}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ProductQuery(url.Values{"author_id": {"not-a-uuid"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductService_Search(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t)
	ctx := context.Background()
	first := seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, "Red kettle", 30)
	second := seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, "Blue kettle", 40)
	seedProduct(t, f.svc.Repo, f.category.ID, f.seller.ID, "Toaster", 50)

	_, err := f.svc.Search(ctx, "  ", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	t.Run("index order is kept", func(t *testing.T) {
		f.index.hits = []string{second.ID.String(), uuid.NewString(), first.ID.String()}
		res, err := f.svc.Search(ctx, "kettle", 1, 10)
		require.NoError(t, err)
		require.Len(t, res.Data, 2)
		assert.Equal(t, second.ID, res.Data[0].ID)
		assert.Equal(t, first.ID, res.Data[1].ID)
	})

	t.Run("falls back to database when the index fails", func(t *testing.T) {
		f.index.searchErr = errors.New("es down")
		res, err := f.svc.Search(ctx, "KETTLE", 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.Total)
		assert.Len(t, res.Data, 2)
	})

	t.Run("no index", func(t *testing.T) {
		svc := &ProductService{Repo: f.svc.Repo}
		res, err := svc.Search(ctx, "toast", 1, 10)
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "Toaster", res.Data[0].Name)
	})
}
