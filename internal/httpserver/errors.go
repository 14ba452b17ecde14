package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	mw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/validation"
)

// fail logs err under event and turns it into the HTTP error the client sees.
// 5xx details stay in the log.
func fail(l *slog.Logger, event string, err error) error {
	code, msg := status(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", msg, "error", err)
		return echo.NewHTTPError(code, msg)
	}
	l.Warn(event, "status", code, "reason", msg, "error", err)
	return echo.NewHTTPError(code, msg)
}

func status(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrAlreadyExists):
		return http.StatusBadRequest, service.Message(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, service.Message(err)
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, service.Message(err)
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "too many requests, try again later"
	case errors.Is(err, service.ErrDelivery):
		return http.StatusBadGateway, "could not deliver the code"
	}
	return http.StatusInternalServerError, "internal server error"
}

func bind(c echo.Context, dest any) error {
	if err := validation.Decode(c.Request().Body, dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a uuid")
	}
	return id, nil
}

func uintParam(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(n), nil
}

// caller is only called behind the guard; a missing identity is a wiring bug.
func caller(c echo.Context) (service.Caller, error) {
	who, ok := mw.CallerFrom(c)
	if !ok {
		return service.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return who, nil
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return n, nil
}
