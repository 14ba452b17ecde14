package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

const defaultSearchSize = 20

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	q, err := service.ProductQuery(c.QueryParams())
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	page, err := h.Svc.List(ctx, q)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	l.Info("get_products_success", "total", page.Total)
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := uuidParam(c, "id")
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "id is not a uuid")
		return err
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	page, err := intQuery(c, "page", 1)
	if err != nil {
		return err
	}
	size, err := intQuery(c, "size", defaultSearchSize)
	if err != nil {
		return err
	}

	res, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	who, err := caller(c)
	if err != nil {
		return err
	}

	var req transport.CreateProductRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	product, err := h.Svc.Create(ctx, who, req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id, err := uuidParam(c, "id")
	if err != nil {
		l.Warn("patch_product_error", "status", 400, "reason", "id is not a uuid")
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := bind(c, &req); err != nil {
		l.Warn("patch_product_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	product, err := h.Svc.Update(ctx, who, id, req)
	if err != nil {
		return fail(l, "patch_product_error", err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := uuidParam(c, "id")
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "id is not a uuid")
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, who, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
