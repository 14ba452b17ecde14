package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/tokens"
)

func newIssuer() *tokens.Issuer {
	return &tokens.Issuer{
		AccessSecret:  []byte("guard-access"),
		RefreshSecret: []byte("guard-refresh"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func newEcho(iss *tokens.Issuer, roles ...string) *echo.Echo {
	e := echo.New()
	g := NewGuard(iss)
	e.GET("/private", func(c echo.Context) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]string{"id": caller.ID.String(), "role": caller.Role})
	}, g.Require(roles...))
	return e
}

func TestGuard_Require(t *testing.T) {
	t.Parallel()

	iss := newIssuer()
	userID := uuid.New()

	adminToken, err := iss.IssueAccess(userID.String(), models.RoleAdmin)
	require.NoError(t, err)
	userToken, err := iss.IssueAccess(userID.String(), models.RoleUser)
	require.NoError(t, err)
	refreshToken, err := iss.IssueRefresh(userID.String(), models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		code    int
		message string
	}{
		{name: "missing header", header: "", code: http.StatusBadRequest, message: "token is required"},
		{name: "empty bearer", header: "Bearer ", code: http.StatusBadRequest, message: "token is required"},
		{name: "garbage token", header: "Bearer not-a-jwt", code: http.StatusUnauthorized, message: "invalid token"},
		{name: "refresh token", header: "Bearer " + refreshToken, code: http.StatusUnauthorized, message: "invalid token"},
		{name: "role not allowed", header: "Bearer " + userToken, code: http.StatusUnauthorized, message: "not allowed"},
		{name: "admin", header: "Bearer " + adminToken, code: http.StatusOK},
	}

	e := newEcho(iss, models.RoleAdmin, models.RoleSuperAdmin)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.code, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
				return
			}
			assert.Equal(t, userID.String(), body["id"])
			assert.Equal(t, models.RoleAdmin, body["role"])
		})
	}
}

func TestGuard_RequireAnyRole(t *testing.T) {
	t.Parallel()

	iss := newIssuer()
	token, err := iss.IssueAccess(uuid.NewString(), models.RoleSeller)
	require.NoError(t, err)

	e := newEcho(iss)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.RoleSeller)
}

func TestGuard_ExpiredToken(t *testing.T) {
	t.Parallel()

	iss := newIssuer()
	iss.Now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := iss.IssueAccess(uuid.NewString(), models.RoleUser)
	require.NoError(t, err)
	iss.Now = nil

	e := newEcho(iss)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
