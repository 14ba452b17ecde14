package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	q, err := service.OrderQuery(c.QueryParams())
	if err != nil {
		return fail(l, "get_orders_error", err)
	}
	page, err := h.Svc.List(ctx, q)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OrderHTTP) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_my_orders")

	who, err := caller(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.Mine(ctx, who)
	if err != nil {
		return fail(l, "get_my_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.Svc.Get(ctx, who, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	who, err := caller(c)
	if err != nil {
		return err
	}
	var req transport.OrderRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	order, err := h.Svc.Create(ctx, who, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) PatchOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.patch_order")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.OrderRequest
	if err := bind(c, &req); err != nil {
		l.Warn("patch_order_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	order, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "patch_order_error", err)
	}

	l.Info("patch_order_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, who, id); err != nil {
		return fail(l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
