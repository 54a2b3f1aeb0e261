package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC restricts a route group to the given roles. It must run after Auth,
// which injects the role claim; an absent claim denies access. Errors flow to
// the central HTTP error handler so the response envelope stays uniform.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "role not permitted")
			}
			return next(c)
		}
	}
}
