package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRBAC(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RBAC(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRBAC_AllowedRole(t *testing.T) {
	rec := runRBAC(t, "admin", "admin", "employee")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_DisallowedRole(t *testing.T) {
	rec := runRBAC(t, "guest", "admin", "employee")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "role not permitted") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRBAC_MissingRole(t *testing.T) {
	rec := runRBAC(t, "", "admin")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
