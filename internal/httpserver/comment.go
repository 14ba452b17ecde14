package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type CommentHTTP struct {
	Svc *service.CommentService
}

func (h *CommentHTTP) GetComments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.get_comments")

	q, err := service.CommentQuery(c.QueryParams())
	if err != nil {
		return fail(l, "get_comments_error", err)
	}
	page, err := h.Svc.List(ctx, q)
	if err != nil {
		return fail(l, "get_comments_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CommentHTTP) GetComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.get_comment")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_comment_error", err)
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *CommentHTTP) CreateComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.create_comment")

	who, err := caller(c)
	if err != nil {
		return err
	}
	var req transport.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_comment_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	comment, err := h.Svc.Create(ctx, who, req)
	if err != nil {
		return fail(l, "create_comment_error", err)
	}

	l.Info("create_comment_success", "comment_id", comment.ID)
	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHTTP) PatchComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.patch_comment")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req transport.PatchCommentRequest
	if err := bind(c, &req); err != nil {
		l.Warn("patch_comment_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	comment, err := h.Svc.Update(ctx, who, id, req)
	if err != nil {
		return fail(l, "patch_comment_error", err)
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *CommentHTTP) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.delete_comment")

	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	who, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, who, id); err != nil {
		return fail(l, "delete_comment_error", err)
	}

	l.Info("delete_comment_success", "comment_id", id)
	return c.NoContent(http.StatusNoContent)
}
