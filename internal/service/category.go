package service

import (
	"context"
	"net/url"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

var categoryList = listing.Spec{
	Fields: []listing.Field{
		{Param: "name", Column: "name", Match: listing.Contains},
	},
	Sortable:    []string{"id", "name"},
	DefaultSort: "name",
}

type CategoryService struct {
	Repo     *repo.GormRepo
	Products *ProductService
}

func CategoryQuery(values url.Values) (listing.Query, error) {
	return parseQuery(values, categoryList)
}

func (s *CategoryService) List(ctx context.Context, q listing.Query) (listing.Page[models.Category], error) {
	return s.Repo.ListCategories(ctx, q)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	if category.Products == nil {
		category.Products = []models.Product{}
	}
	if err := fillStars(ctx, s.Repo, category.Products); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	category := &models.Category{Name: req.Name}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req transport.PatchCategoryRequest) (*models.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Name == nil {
		return nil, invalid("at least one field must be provided")
	}
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	category.Name = *req.Name
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	category.Products = nil
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	ids, err := s.Repo.ProductIDsWhere(ctx, "category_id = ?", id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return notFound(err, "category")
	}
	s.Products.Forget(ctx, ids)
	return nil
}
