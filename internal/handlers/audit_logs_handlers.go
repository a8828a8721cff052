package handlers

import (
	"net/http"

	"agrilink/internal/common"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditLogHandlers handles HTTP requests for audit log inspection
type AuditLogHandlers struct {
	auditService services.AuditLogService
}

// NewAuditLogHandlers creates a new audit log handlers instance
func NewAuditLogHandlers(auditService services.AuditLogService) *AuditLogHandlers {
	return &AuditLogHandlers{auditService: auditService}
}

// ListAuditLogs handles GET /admin/audit-logs
func (h *AuditLogHandlers) ListAuditLogs(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c, 50)

	if raw := c.QueryParam("user_id"); raw != "" {
		userID, err := common.ValidateUUID(raw, "user_id")
		if err != nil {
			return common.SendValidationError(c, "user_id", err.Error())
		}
		logs, err := h.auditService.ListByUser(ctx, userID, limit, offset)
		if err != nil {
			return common.SendServerError(c, "Failed to list audit logs")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"logs":   logs,
			"limit":  limit,
			"offset": offset,
		})
	}

	logs, err := h.auditService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list audit logs")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}
