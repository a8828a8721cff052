package middleware

import (
	"agrilink/internal/common"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditMiddleware records mutating requests after the handler runs.
// Read-only traffic is not logged.
func AuditMiddleware(auditService services.AuditLogService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method != "POST" && method != "PUT" && method != "PATCH" && method != "DELETE" {
				return err
			}

			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return err
			}

			action := method + " " + c.Path()
			ip := c.RealIP()
			auditService.Record(ctx, &userID, action, c.Path(), nil, nil, &ip)

			return err
		}
	}
}
