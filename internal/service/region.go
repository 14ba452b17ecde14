package service

import (
	"context"
	"net/url"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

var regionList = listing.Spec{
	Fields: []listing.Field{
		{Param: "id", Column: "id", Match: listing.ExactInt},
		{Param: "name", Column: "name", Match: listing.Contains},
	},
	Sortable:    []string{"id", "name"},
	DefaultSort: "id",
}

type RegionService struct {
	Repo     *repo.GormRepo
	Products *ProductService
}

func RegionQuery(values url.Values) (listing.Query, error) {
	return parseQuery(values, regionList)
}

func (s *RegionService) List(ctx context.Context, q listing.Query) (listing.Page[models.Region], error) {
	return s.Repo.ListRegions(ctx, q)
}

func (s *RegionService) Get(ctx context.Context, id uint) (*models.Region, error) {
	region, err := s.Repo.GetRegion(ctx, id)
	if err != nil {
		return nil, notFound(err, "region")
	}
	return region, nil
}

func (s *RegionService) Create(ctx context.Context, req transport.RegionRequest) (*models.Region, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	region := &models.Region{Name: req.Name}
	if err := s.Repo.CreateRegion(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

func (s *RegionService) Update(ctx context.Context, id uint, req transport.PatchRegionRequest) (*models.Region, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Name == nil {
		return nil, invalid("at least one field must be provided")
	}
	region, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	region.Name = *req.Name
	if err := s.Repo.SaveRegion(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

// Delete removes the region; users in it and everything they own go with it.
func (s *RegionService) Delete(ctx context.Context, id uint) error {
	ids, err := s.Repo.ProductIDsWhere(ctx, "author_id IN (?)",
		s.Repo.DB.WithContext(ctx).Model(&models.User{}).Select("id").Where("region_id = ?", id))
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteRegion(ctx, id); err != nil {
		return notFound(err, "region")
	}
	s.Products.Forget(ctx, ids)
	return nil
}
