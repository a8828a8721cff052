package handlers

import (
	"net/http"

	"agrilink/internal/common"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers handles HTTP requests for the admin dashboard summary
type DashboardHandlers struct {
	dashboardService services.DashboardService
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// GetSummary handles GET /admin/dashboard
func (h *DashboardHandlers) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.dashboardService.Summary(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to load dashboard")
	}

	return c.JSON(http.StatusOK, summary)
}

// Refresh handles POST /admin/dashboard/refresh
func (h *DashboardHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.dashboardService.Refresh(ctx); err != nil {
		return common.SendServerError(c, "Failed to refresh dashboard")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Dashboard refreshed",
	})
}
