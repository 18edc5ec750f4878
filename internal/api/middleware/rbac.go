package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

// RBAC enforces role-based access control on the token's role claim. It is a
// fast path only: the services re-check the stored role.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFrom(c)
			if !session.Authenticated() {
				return domain.Unauthenticated(msgMissingToken)
			}
			if _, ok := allowed[session.Role]; !ok {
				return domain.Forbidden(msgAdminOnly)
			}
			return next(c)
		}
	}
}
