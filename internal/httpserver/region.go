package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type RegionHTTP struct {
	Svc *service.RegionService
}

func (h *RegionHTTP) GetRegions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "region.get_regions")

	q, err := service.RegionQuery(c.QueryParams())
	if err != nil {
		return fail(l, "get_regions_error", err)
	}
	page, err := h.Svc.List(ctx, q)
	if err != nil {
		return fail(l, "get_regions_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *RegionHTTP) GetRegion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "region.get_region")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	region, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_region_error", err)
	}
	return c.JSON(http.StatusOK, region)
}

func (h *RegionHTTP) CreateRegion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "region.create_region")

	var req transport.RegionRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_region_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	region, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_region_error", err)
	}

	l.Info("create_region_success", "region_id", region.ID)
	return c.JSON(http.StatusCreated, region)
}

func (h *RegionHTTP) PatchRegion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "region.patch_region")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchRegionRequest
	if err := bind(c, &req); err != nil {
		l.Warn("patch_region_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	region, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "patch_region_error", err)
	}
	return c.JSON(http.StatusOK, region)
}

func (h *RegionHTTP) DeleteRegion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "region.delete_region")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_region_error", err)
	}

	l.Info("delete_region_success", "region_id", id)
	return c.NoContent(http.StatusNoContent)
}
