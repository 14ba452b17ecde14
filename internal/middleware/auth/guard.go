package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/tokens"
)

const (
	ctxClaims = "user"
	ctxUserID = "user_id"
	ctxRole   = "role"
)

type Verifier interface {
	VerifyAccess(token string) (*tokens.Claims, error)
}

type Guard struct {
	Tokens Verifier
}

func NewGuard(v Verifier) *Guard {
	return &Guard{Tokens: v}
}

// Require verifies the bearer access token and, when roles are given, that its role is one of them.
// No token is a 400, a bad token a 401, a role outside the list a 401 "not allowed".
func (g *Guard) Require(roles ...string) echo.MiddlewareFunc {
	jwtMW := echojwt.WithConfig(echojwt.Config{
		ContextKey:  ctxClaims,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (any, error) {
			return g.Tokens.VerifyAccess(raw)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth.require")
			if !hasBearer(c.Request()) {
				l.Warn("auth_error", "status", 400, "reason", "missing token")
				return echo.NewHTTPError(http.StatusBadRequest, "token is required")
			}
			l.Warn("auth_error", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMW(func(c echo.Context) error {
			claims, ok := c.Get(ctxClaims).(*tokens.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			id, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
				logging.FromContext(c.Request().Context()).Warn("auth_error",
					"status", 401, "reason", "role not allowed", "role", claims.Role)
				return echo.NewHTTPError(http.StatusUnauthorized, "not allowed")
			}

			c.Set(ctxUserID, id)
			c.Set(ctxRole, claims.Role)
			return next(c)
		})
	}
}

func hasBearer(r *http.Request) bool {
	h := r.Header.Get(echo.HeaderAuthorization)
	return len(h) > len("Bearer ") && strings.EqualFold(h[:len("Bearer ")], "Bearer ")
}

// CallerFrom returns the identity attached by Require.
func CallerFrom(c echo.Context) (service.Caller, bool) {
	id, ok := c.Get(ctxUserID).(uuid.UUID)
	if !ok {
		return service.Caller{}, false
	}
	role, _ := c.Get(ctxRole).(string)
	return service.Caller{ID: id, Role: role}, true
}

// SetCaller attaches an identity the way Require does.
func SetCaller(c echo.Context, caller service.Caller) {
	c.Set(ctxUserID, caller.ID)
	c.Set(ctxRole, caller.Role)
}
