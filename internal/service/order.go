package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

var orderList = listing.Spec{
	Fields: []listing.Field{
		{Param: "user_id", Column: "user_id", Match: listing.ExactUUID},
	},
	Sortable:    []string{"id", "created_at", "updated_at"},
	DefaultSort: "id",
}

type OrderService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

func OrderQuery(values url.Values) (listing.Query, error) {
	return parseQuery(values, orderList)
}

func (s *OrderService) List(ctx context.Context, q listing.Query) (listing.Page[models.Order], error) {
	return s.Repo.ListOrders(ctx, q)
}

// Mine returns the caller's orders, newest first.
func (s *OrderService) Mine(ctx context.Context, caller Caller) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, caller.ID)
}

func (s *OrderService) Get(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if !caller.Owns(order.UserID) && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	}
	return order, nil
}

// Create places an order for the caller. Every referenced product must exist.
func (s *OrderService) Create(ctx context.Context, caller Caller, req transport.OrderRequest) (*models.Order, error) {
	items, err := s.items(ctx, req)
	if err != nil {
		return nil, err
	}

	order := &models.Order{UserID: caller.ID, Items: items}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	created, err := s.Repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	s.emit(ctx, created, "order_created")
	return created, nil
}

// Update replaces the item list of an order.
func (s *OrderService) Update(ctx context.Context, id uint, req transport.OrderRequest) (*models.Order, error) {
	items, err := s.items(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.ReplaceOrderItems(ctx, id, items); err != nil {
		return nil, notFound(err, "order")
	}

	updated, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	s.emit(ctx, updated, "order_updated")
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, caller Caller, id uint) error {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return notFound(err, "order")
	}
	if !caller.Owns(order.UserID) && !caller.IsAdmin() {
		return fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	}
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return notFound(err, "order")
	}
	publish(ctx, s.Events, mykafka.TopicOrders, strconv.FormatUint(uint64(id), 10), "order_deleted", nil)
	return nil
}

func (s *OrderService) items(ctx context.Context, req transport.OrderRequest) ([]models.OrderItem, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	unique := make(map[uuid.UUID]struct{}, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if _, seen := unique[it.ProductID]; !seen {
			unique[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
		items = append(items, models.OrderItem{ProductID: it.ProductID, Count: it.Count})
	}

	n, err := s.Repo.CountProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if n != int64(len(ids)) {
		return nil, fmt.Errorf("%w: product not found", ErrNotFound)
	}
	return items, nil
}

func (s *OrderService) emit(ctx context.Context, o *models.Order, event string) {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{"product_id": it.ProductID, "count": it.Count})
	}
	publish(ctx, s.Events, mykafka.TopicOrders, strconv.FormatUint(uint64(o.ID), 10), event, map[string]any{
		"user_id": o.UserID,
		"items":   items,
	})
}
