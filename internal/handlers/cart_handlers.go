package handlers

import (
	"errors"
	"net/http"

	"agrilink/internal/common"
	"agrilink/internal/models"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// CartHandlers handles HTTP requests for the buyer cart
type CartHandlers struct {
	cartService services.CartService
}

// NewCartHandlers creates a new cart handlers instance
func NewCartHandlers(cartService services.CartService) *CartHandlers {
	return &CartHandlers{cartService: cartService}
}

func cartResponse(cart *models.Cart) map[string]interface{} {
	return map[string]interface{}{
		"cart":  cart,
		"total": cart.Total(),
	}
}

// GetCart handles GET /cart
func (h *CartHandlers) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	cart, err := h.cartService.Get(ctx, buyerID)
	if err != nil {
		return common.SendServerError(c, "Failed to load cart")
	}

	return c.JSON(http.StatusOK, cartResponse(cart))
}

// AddItem handles POST /cart/items
func (h *CartHandlers) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		InventoryID string `json:"inventory_id"`
		Quantity    int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	inventoryID, err := common.ValidateUUID(req.InventoryID, "inventory_id")
	if err != nil {
		return common.SendValidationError(c, "inventory_id", err.Error())
	}
	if req.Quantity <= 0 {
		return common.SendValidationError(c, "quantity", "quantity must be positive")
	}

	cart, err := h.cartService.AddItem(ctx, buyerID, inventoryID, req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "catalog item")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, cartResponse(cart))
}

// UpdateLine handles PUT /cart/items/:key
func (h *CartHandlers) UpdateLine(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	lineKey := c.Param("key")
	if lineKey == "" {
		return common.SendValidationError(c, "key", "line key is required")
	}

	var req struct {
		Quantity  string `json:"quantity"`
		UnitPrice string `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	cart, err := h.cartService.UpdateLine(ctx, buyerID, lineKey, req.Quantity, req.UnitPrice)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "cart line")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveLine handles DELETE /cart/items/:key
func (h *CartHandlers) RemoveLine(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	lineKey := c.Param("key")
	if lineKey == "" {
		return common.SendValidationError(c, "key", "line key is required")
	}

	cart, err := h.cartService.RemoveLine(ctx, buyerID, lineKey)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "cart line")
		}
		return common.SendServerError(c, "Failed to update cart")
	}

	return c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart handles DELETE /cart
func (h *CartHandlers) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.cartService.Clear(ctx, buyerID); err != nil {
		return common.SendServerError(c, "Failed to clear cart")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Cart cleared",
	})
}
