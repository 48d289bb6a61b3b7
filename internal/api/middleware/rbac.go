package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/services-api/internal/core/domain"
)

// Authorize enforces role-based access control. It must run after
// RequireIdentity.
func Authorize(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")
			}
			if !id.Role.In(allowed...) {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("User role %s is not authorized to access this route", id.Role))
			}
			return next(c)
		}
	}
}
