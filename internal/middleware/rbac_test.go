package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGuard(t *testing.T, mw echo.MiddlewareFunc, role string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	nextCalled := false
	h := mw(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, nextCalled
}

func TestAdminGuardAllowsAdmin(t *testing.T) {
	rec, nextCalled := runGuard(t, AdminGuard, "admin")
	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminGuardRejectsStudent(t *testing.T) {
	rec, nextCalled := runGuard(t, AdminGuard, "student")
	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminGuardRejectsMissingRole(t *testing.T) {
	rec, nextCalled := runGuard(t, AdminGuard, "")
	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesMultiple(t *testing.T) {
	mw := RequireRoles("admin", "student")
	rec, nextCalled := runGuard(t, mw, "student")
	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}
