package handlers

import (
	"errors"
	"net/http"
	"strings"

	"agrilink/internal/common"
	"agrilink/internal/models"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles HTTP requests for users, role assignment, seller
// validation and ambassador scope.
type UserHandlers struct {
	userService services.UserService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// GetUserByID handles GET /users/:id
func (h *UserHandlers) GetUserByID(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "user")
		}
		return common.SendServerError(c, "Failed to load user")
	}

	return c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /admin/users. An optional role query param narrows
// the listing to users holding that role.
func (h *UserHandlers) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	if role := strings.TrimSpace(c.QueryParam("role")); role != "" {
		users, err := h.userService.ListByRole(ctx, role)
		if err != nil {
			return common.SendServerError(c, "Failed to list users")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"users": users,
			"role":  role,
			"count": len(users),
		})
	}

	limit, offset := paginationParams(c, 20)

	users, err := h.userService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list users")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// AssignRole handles POST /admin/users/:id/roles
func (h *UserHandlers) AssignRole(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.Role) == "" {
		return common.SendValidationError(c, "role", "role is required")
	}

	if err := h.userService.AssignRole(ctx, userID, req.Role); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "user or role")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Role assigned successfully",
	})
}

// RemoveRole handles DELETE /admin/users/:id/roles/:role
func (h *UserHandlers) RemoveRole(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	role := c.Param("role")
	if role == "" {
		return common.SendValidationError(c, "role", "role is required")
	}

	if err := h.userService.RemoveRole(ctx, userID, role); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "user or role")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Role removed successfully",
	})
}

// SetSellerValidation handles PATCH /admin/sellers/:id/validation
func (h *UserHandlers) SetSellerValidation(c echo.Context) error {
	ctx := c.Request().Context()

	sellerID, err := common.ValidateUUID(c.Param("id"), "seller id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.userService.SetSellerValidation(ctx, sellerID, req.Status); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "seller")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Seller validation status updated",
		"status":  req.Status,
	})
}

// ReassignSellerAdmin handles PATCH /admin/sellers/:id/assigned-admin.
// An empty admin_user_id clears the assignment.
func (h *UserHandlers) ReassignSellerAdmin(c echo.Context) error {
	ctx := c.Request().Context()

	sellerID, err := common.ValidateUUID(c.Param("id"), "seller id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		AdminUserID *string `json:"admin_user_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	adminID, err := parseOptionalUUID(req.AdminUserID, "admin_user_id")
	if err != nil {
		return common.SendValidationError(c, "admin_user_id", err.Error())
	}

	if err := h.userService.ReassignSellerAdmin(ctx, sellerID, adminID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "user")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Seller admin assignment updated",
	})
}

// GetScope handles GET /ambassadors/scope for the authenticated ambassador.
func (h *UserHandlers) GetScope(c echo.Context) error {
	ctx := c.Request().Context()

	ambassadorID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	scope, err := h.userService.Scope(ctx, ambassadorID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "ambassador region")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, scope)
}

// CreateBuyerGroup handles POST /ambassadors/buyer-groups
func (h *UserHandlers) CreateBuyerGroup(c echo.Context) error {
	ctx := c.Request().Context()

	ambassadorID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		GroupName     string `json:"group_name"`
		LocalRegionID string `json:"local_region_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.GroupName) == "" {
		return common.SendValidationError(c, "group_name", "group name is required")
	}

	localRegionID, err := common.ValidateUUID(req.LocalRegionID, "local_region_id")
	if err != nil {
		return common.SendValidationError(c, "local_region_id", err.Error())
	}

	group, err := h.userService.CreateBuyerGroup(ctx, &models.BuyerGroup{
		GroupName:     strings.TrimSpace(req.GroupName),
		AmbassadorID:  ambassadorID,
		LocalRegionID: localRegionID,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "local region")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Buyer group created successfully",
		"group":   group,
	})
}

// ListBuyerGroups handles GET /ambassadors/buyer-groups
func (h *UserHandlers) ListBuyerGroups(c echo.Context) error {
	ctx := c.Request().Context()

	ambassadorID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	groups, err := h.userService.ListBuyerGroups(ctx, ambassadorID)
	if err != nil {
		return common.SendServerError(c, "Failed to list buyer groups")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"groups": groups,
		"count":  len(groups),
	})
}

// DeleteBuyerGroup handles DELETE /ambassadors/buyer-groups/:id
func (h *UserHandlers) DeleteBuyerGroup(c echo.Context) error {
	ctx := c.Request().Context()

	groupID, err := common.ValidateUUID(c.Param("id"), "group id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.userService.DeleteBuyerGroup(ctx, groupID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "buyer group")
		}
		return common.SendServerError(c, "Failed to delete buyer group")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Buyer group deleted successfully",
	})
}

// AddBuyerToGroup handles POST /ambassadors/buyer-groups/:id/members
func (h *UserHandlers) AddBuyerToGroup(c echo.Context) error {
	ctx := c.Request().Context()

	groupID, err := common.ValidateUUID(c.Param("id"), "group id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		BuyerID string `json:"buyer_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	buyerID, err := common.ValidateUUID(req.BuyerID, "buyer_id")
	if err != nil {
		return common.SendValidationError(c, "buyer_id", err.Error())
	}

	if err := h.userService.AddBuyerToGroup(ctx, groupID, buyerID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "buyer group or buyer")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Buyer added to group",
	})
}

// RemoveBuyerFromGroup handles DELETE /ambassadors/buyer-groups/:id/members/:buyerId
func (h *UserHandlers) RemoveBuyerFromGroup(c echo.Context) error {
	ctx := c.Request().Context()

	groupID, err := common.ValidateUUID(c.Param("id"), "group id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	buyerID, err := common.ValidateUUID(c.Param("buyerId"), "buyer id")
	if err != nil {
		return common.SendValidationError(c, "buyerId", err.Error())
	}

	if err := h.userService.RemoveBuyerFromGroup(ctx, groupID, buyerID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "buyer group member")
		}
		return common.SendServerError(c, "Failed to remove buyer from group")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Buyer removed from group",
	})
}
