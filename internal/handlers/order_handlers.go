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

// OrderHandlers handles HTTP requests for checkout and order lifecycle
type OrderHandlers struct {
	orderService services.OrderService
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// Checkout handles POST /orders
func (h *OrderHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req models.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.Items) == 0 {
		return common.SendValidationError(c, "items", "checkout requires at least one item")
	}

	result, err := h.orderService.Checkout(ctx, buyerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "inventory item")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, result)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "order")
		}
		return common.SendServerError(c, "Failed to load order")
	}

	return c.JSON(http.StatusOK, order)
}

// GetGroup handles GET /orders/groups/:id. Buyers only see their own
// checkouts, admin roles see any.
func (h *OrderHandlers) GetGroup(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	groupID, err := common.ValidateUUID(c.Param("id"), "order group id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	group, err := h.orderService.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "order group")
		}
		return common.SendServerError(c, "Failed to load order group")
	}

	adminLike := common.HasRole(ctx, models.RoleAdmin) || common.HasRole(ctx, models.RoleSuperAdmin)
	if group.BuyerID != userID && !adminLike {
		return common.SendNotFoundError(c, "order group")
	}

	return c.JSON(http.StatusOK, group)
}

// ListMyGroups handles GET /orders/groups
func (h *OrderHandlers) ListMyGroups(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	limit, offset := paginationParams(c, 20)

	groups, err := h.orderService.ListGroupsForBuyer(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list order groups")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"groups": groups,
		"limit":  limit,
		"offset": offset,
	})
}

// ListAmbassadorGroups handles GET /orders/ambassador-groups, the checkouts
// of the buyers in the caller's buyer groups.
func (h *OrderHandlers) ListAmbassadorGroups(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	limit, offset := paginationParams(c, 20)

	groups, err := h.orderService.ListGroupsForAmbassador(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list order groups")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"groups": groups,
		"limit":  limit,
		"offset": offset,
	})
}

// ListMyOrders handles GET /orders, scoped to the caller by role query param.
// ?as=seller and ?as=supplier list the orders routed to the caller as a
// source; the default lists the caller's purchases.
func (h *OrderHandlers) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := paginationParams(c, 20)

	var (
		orders []*models.OrderRow
		err    error
	)
	switch strings.ToLower(c.QueryParam("as")) {
	case "seller":
		orders, err = h.orderService.ListForSeller(ctx, userID, limit, offset)
	case "supplier":
		orders, err = h.orderService.ListForSupplier(ctx, userID, limit, offset)
	default:
		orders, err = h.orderService.ListForBuyer(ctx, userID, limit, offset)
	}
	if err != nil {
		return common.SendServerError(c, "Failed to list orders")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// ListAllOrders handles GET /admin/orders
func (h *OrderHandlers) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c, 20)
	status := c.QueryParam("status")
	if status != "" && !models.ValidOrderStatus(status) {
		return common.SendValidationError(c, "status", "unknown order status")
	}

	orders, err := h.orderService.List(ctx, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list orders")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateOrderStatus handles PATCH /orders/:id/status
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	order, err := h.orderService.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "order")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Order status updated successfully",
		"order":   order,
	})
}
