package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const APIVersion = "v1"

// VersionHeader stamps every response with the API version.
func VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", APIVersion)
			return next(c)
		}
	}
}

func VersionRoute(e *echo.Echo) {
	e.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"version": APIVersion,
			"service": "agrilink",
		})
	})
}
