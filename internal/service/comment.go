package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

var commentList = listing.Spec{
	Fields: []listing.Field{
		{Param: "product_id", Column: "product_id", Match: listing.ExactUUID},
		{Param: "author_id", Column: "author_id", Match: listing.ExactUUID},
		{Param: "min_star", Column: "star", Match: listing.Min},
		{Param: "max_star", Column: "star", Match: listing.Max},
	},
	Sortable:    []string{"star", "created_at"},
	DefaultSort: "star",
}

type CommentService struct {
	Repo *repo.GormRepo
}

func CommentQuery(values url.Values) (listing.Query, error) {
	return parseQuery(values, commentList)
}

func (s *CommentService) List(ctx context.Context, q listing.Query) (listing.Page[models.Comment], error) {
	return s.Repo.ListComments(ctx, q)
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.Repo.GetComment(ctx, id)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, caller Caller, req transport.CreateCommentRequest) (*models.Comment, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetProduct(ctx, req.ProductID); err != nil {
		return nil, notFound(err, "product")
	}

	comment := &models.Comment{
		Message:   req.Message,
		Star:      req.Star,
		ProductID: req.ProductID,
		AuthorID:  caller.ID,
	}
	if err := s.Repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.Get(ctx, comment.ID)
}

func (s *CommentService) Update(ctx context.Context, caller Caller, id uint, req transport.PatchCommentRequest) (*models.Comment, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, invalid("at least one field must be provided")
	}

	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(comment.AuthorID) && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: comment belongs to another user", ErrForbidden)
	}

	if req.Message != nil {
		comment.Message = *req.Message
	}
	if req.Star != nil {
		comment.Star = *req.Star
	}
	if err := s.Repo.SaveComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *CommentService) Delete(ctx context.Context, caller Caller, id uint) error {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.Owns(comment.AuthorID) && !caller.IsAdmin() {
		return fmt.Errorf("%w: comment belongs to another user", ErrForbidden)
	}
	if err := s.Repo.DeleteComment(ctx, id); err != nil {
		return notFound(err, "comment")
	}
	return nil
}
