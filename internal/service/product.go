package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

var productList = listing.Spec{
	Fields: []listing.Field{
		{Param: "category_id", Column: "category_id", Match: listing.ExactInt},
		{Param: "author_id", Column: "author_id", Match: listing.ExactUUID},
		{Param: "name", Column: "name", Match: listing.Contains},
		{Param: "min_price", Column: "price", Match: listing.Min},
		{Param: "max_price", Column: "price", Match: listing.Max},
	},
	Sortable:    []string{"price", "name", "created_at"},
	DefaultSort: "price",
}

type ProductIndexer interface {
	Upsert(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
}

type ProductService struct {
	Repo   *repo.GormRepo
	Index  ProductIndexer
	Events mykafka.Publisher
}

func ProductQuery(values url.Values) (listing.Query, error) {
	return parseQuery(values, productList)
}

func (s *ProductService) List(ctx context.Context, q listing.Query) (listing.Page[models.Product], error) {
	page, err := s.Repo.ListProducts(ctx, q)
	if err != nil {
		return listing.Page[models.Product]{}, err
	}
	if err := fillStars(ctx, s.Repo, page.Data); err != nil {
		return listing.Page[models.Product]{}, err
	}
	return page, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	one := []models.Product{*product}
	if err := fillStars(ctx, s.Repo, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Create forces author_id to the caller; star starts at 0.
func (s *ProductService) Create(ctx context.Context, caller Caller, req transport.CreateProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
		AuthorID:    caller.ID,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	s.sync(ctx, created, "product_created")
	return created, nil
}

// Update never touches author_id; sellers may only edit their own products.
func (s *ProductService) Update(ctx context.Context, caller Caller, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, invalid("at least one field must be provided")
	}

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if !caller.Owns(product.AuthorID) && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: product belongs to another seller", ErrForbidden)
	}

	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
		product.Category = nil
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Image != nil {
		product.Image = *req.Image
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.sync(ctx, updated, "product_updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return notFound(err, "product")
	}
	if !caller.Owns(product.AuthorID) && !caller.IsAdmin() {
		return fmt.Errorf("%w: product belongs to another seller", ErrForbidden)
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product")
	}
	s.Forget(ctx, []uuid.UUID{id})
	return nil
}

// Forget drops already deleted products from the index and announces them.
// Cascading deletes of categories, regions and users end here.
func (s *ProductService) Forget(ctx context.Context, ids []uuid.UUID) {
	if s == nil {
		return
	}
	for _, id := range ids {
		if s.Index != nil {
			if err := s.Index.Delete(ctx, id.String()); err != nil {
				logging.FromContext(ctx).Error("index_delete_failed", "product_id", id, "error", err)
			}
		}
		publish(ctx, s.Events, mykafka.TopicProducts, id.String(), "product_deleted", nil)
	}
}

// Search uses the search index when configured and falls back to a name/description match.
func (s *ProductService) Search(ctx context.Context, query string, page, size int) (*transport.SearchResponse[models.Product], error) {
	l := logging.FromContext(ctx).With("svc", "product.search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q is required")
	}
	if size > listing.MaxLimit {
		size = listing.MaxLimit
	}
	offset, limit := listing.Calculate(page, size)

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.byIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &transport.SearchResponse[models.Product]{Data: items, Total: total}, nil
		}
		l.Error("index_search_failed", "reason", "falling back to database", "error", err)
	}

	total, items, err := s.Repo.SearchProductsByName(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	if err := fillStars(ctx, s.Repo, items); err != nil {
		return nil, err
	}
	return &transport.SearchResponse[models.Product]{Data: items, Total: total}, nil
}

// byIDs loads products in the order of ids, skipping ids that no longer exist.
func (s *ProductService) byIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			parsed = append(parsed, id)
		}
	}
	found, err := s.Repo.GetProductsByIDs(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if err := fillStars(ctx, s.Repo, found); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	items := make([]models.Product, 0, len(parsed))
	for _, id := range parsed {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}

func (s *ProductService) ensureCategory(ctx context.Context, id uint) error {
	ok, err := s.Repo.CategoryExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: category not found", ErrNotFound)
	}
	return nil
}

func (s *ProductService) sync(ctx context.Context, p *models.Product, event string) {
	if s.Index != nil {
		if err := s.Index.Upsert(ctx, p); err != nil {
			logging.FromContext(ctx).Error("index_upsert_failed", "product_id", p.ID, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicProducts, p.ID.String(), event, map[string]any{
		"name":        p.Name,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"author_id":   p.AuthorID,
	})
}

// fillStars sets each product's star to the rounded mean of its comment stars, or 0.
func fillStars(ctx context.Context, r *repo.GormRepo, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	stats, err := r.StarStats(ctx, ids)
	if err != nil {
		return err
	}

	avg := make(map[uuid.UUID]float64, len(stats))
	for _, st := range stats {
		avg[st.ProductID] = StarAverage(st.Total, st.Count)
	}
	for i := range products {
		products[i].Star = avg[products[i].ID]
	}
	return nil
}

func StarAverage(total, count int64) float64 {
	if count == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(total).Div(decimal.NewFromInt(count)).Round(1).Float64()
	return f
}
