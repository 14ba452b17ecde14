package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/hash"
	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

var userList = listing.Spec{
	Fields: []listing.Field{
		{Param: "region_id", Column: "region_id", Match: listing.ExactInt},
		{Param: "role", Column: "role", Match: listing.Exact},
		{Param: "name", Column: "name", Match: listing.Contains},
	},
	Sortable:    []string{"name", "year", "created_at"},
	DefaultSort: "name",
}

type UserService struct {
	Repo     *repo.GormRepo
	Products *ProductService
}

func UserQuery(values url.Values) (listing.Query, error) {
	return parseQuery(values, userList)
}

func (s *UserService) List(ctx context.Context, q listing.Query) (listing.Page[models.User], error) {
	return s.Repo.ListUsers(ctx, q)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, caller Caller, id uuid.UUID, req transport.UpdateUserRequest) (*models.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, invalid("at least one field must be provided")
	}
	if !caller.Owns(id) && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: you can only update your own account", ErrForbidden)
	}
	if req.Role != nil && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can change roles", ErrForbidden)
	}
	if req.Role != nil && *req.Role == models.RoleSuperAdmin && caller.Role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: only a superadmin can grant superadmin", ErrForbidden)
	}

	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err := guardSuperAdmin(caller, user); err != nil {
		return nil, err
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}

	checks := []struct {
		field repo.UniqueField
		value *string
		label string
	}{
		{repo.FieldEmail, req.Email, "Email"},
		{repo.FieldPhone, req.Phone, "Phone"},
		{repo.FieldName, req.Name, "Username"},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		taken, err := s.Repo.UserExists(ctx, c.field, *c.value, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, exists(c.label)
		}
	}

	if req.RegionID != nil {
		ok, err := s.Repo.RegionExists(ctx, *req.RegionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: region not found", ErrNotFound)
		}
		user.RegionID = *req.RegionID
		user.Region = nil
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Year != nil {
		user.Year = *req.Year
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, exists("User")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Owns(id) && !caller.IsAdmin() {
		return fmt.Errorf("%w: you can only delete your own account", ErrForbidden)
	}
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return notFound(err, "user")
	}
	if err := guardSuperAdmin(caller, user); err != nil {
		return err
	}
	ids, err := s.Repo.ProductIDsWhere(ctx, "author_id = ?", id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return notFound(err, "user")
	}
	s.Products.Forget(ctx, ids)
	return nil
}

// guardSuperAdmin keeps plain admins away from superadmin accounts.
func guardSuperAdmin(caller Caller, target *models.User) error {
	if target.Role == models.RoleSuperAdmin && !caller.Owns(target.ID) && caller.Role != models.RoleSuperAdmin {
		return fmt.Errorf("%w: only a superadmin can manage a superadmin", ErrForbidden)
	}
	return nil
}

func parseQuery(values url.Values, spec listing.Spec) (listing.Query, error) {
	q, err := listing.Parse(values, spec)
	if err != nil {
		return listing.Query{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return q, nil
}
