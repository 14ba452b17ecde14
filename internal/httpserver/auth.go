package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	pair, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := bind(c, &req); err != nil {
		l.Warn("refresh_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	access, err := h.Svc.Refresh(ctx, req)
	if err != nil {
		return fail(l, "refresh_error", err)
	}

	return c.JSON(http.StatusOK, transport.AccessTokenResponse{AccessToken: access})
}

func (h *AuthHTTP) SendOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.send_otp")

	var req transport.SendOTPRequest
	if err := bind(c, &req); err != nil {
		l.Warn("send_otp_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	if err := h.Svc.SendOTP(ctx, req); err != nil {
		return fail(l, "send_otp_error", err)
	}

	return c.JSON(http.StatusOK, transport.SendOTPResponse{Message: "OTP sent"})
}

func (h *AuthHTTP) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_otp")

	var req transport.VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		l.Warn("verify_otp_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	ok, err := h.Svc.VerifyOTP(ctx, req)
	if err != nil {
		return fail(l, "verify_otp_error", err)
	}

	l.Info("verify_otp_done", "verified", ok)
	return c.JSON(http.StatusOK, transport.VerifyOTPResponse{Verified: ok})
}
