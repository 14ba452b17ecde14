package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	q, err := service.UserQuery(c.QueryParams())
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	page, err := h.Svc.List(ctx, q)
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := uuidParam(c, "id")
	if err != nil {
		l.Warn("get_user_error", "status", 400, "reason", "id is not a uuid")
		return err
	}
	user, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) PatchUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.patch_user")

	id, err := uuidParam(c, "id")
	if err != nil {
		l.Warn("patch_user_error", "status", 400, "reason", "id is not a uuid")
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		l.Warn("patch_user_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	user, err := h.Svc.Update(ctx, who, id, req)
	if err != nil {
		return fail(l, "patch_user_error", err)
	}

	l.Info("patch_user_success", "user_id", id)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id, err := uuidParam(c, "id")
	if err != nil {
		l.Warn("delete_user_error", "status", 400, "reason", "id is not a uuid")
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, who, id); err != nil {
		return fail(l, "delete_user_error", err)
	}

	l.Info("delete_user_success", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}
