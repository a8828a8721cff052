package handlers

import (
	"errors"
	"net/http"

	"agrilink/internal/common"
	"agrilink/internal/models"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles HTTP requests for inventory items
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

type inventoryRequest struct {
	Kind              string  `json:"kind"`
	ProductID         string  `json:"product_id"`
	SellerID          *string `json:"seller_id"`
	SupplierID        *string `json:"supplier_id"`
	Quantity          int     `json:"quantity"`
	EstimatedQuantity int     `json:"estimated_quantity"`
	UnitPrice         float64 `json:"unit_price"`
	ValidityDays      *int    `json:"validity_days"`
}

func (h *InventoryHandlers) itemFromRequest(req *inventoryRequest) (*models.InventoryItem, error) {
	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return nil, err
	}
	sellerID, err := parseOptionalUUID(req.SellerID, "seller_id")
	if err != nil {
		return nil, err
	}
	supplierID, err := parseOptionalUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return nil, err
	}
	return &models.InventoryItem{
		Kind:              req.Kind,
		ProductID:         productID,
		SellerID:          sellerID,
		SupplierID:        supplierID,
		Quantity:          req.Quantity,
		EstimatedQuantity: req.EstimatedQuantity,
		UnitPrice:         req.UnitPrice,
		ValidityDays:      req.ValidityDays,
	}, nil
}

// CreateInventoryItem handles POST /inventory
func (h *InventoryHandlers) CreateInventoryItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req inventoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.itemFromRequest(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	created, err := h.inventoryService.Create(ctx, item)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "referenced record")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Inventory item created successfully",
		"item":    created,
	})
}

// GetInventoryItem handles GET /inventory/:id
func (h *InventoryHandlers) GetInventoryItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("id"), "inventory id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	item, err := h.inventoryService.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "inventory item")
		}
		return common.SendServerError(c, "Failed to load inventory item")
	}

	return c.JSON(http.StatusOK, item)
}

// UpdateInventoryItem handles PUT /inventory/:id
func (h *InventoryHandlers) UpdateInventoryItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("id"), "inventory id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req inventoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item, err := h.itemFromRequest(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	item.ID = itemID

	updated, err := h.inventoryService.Update(ctx, item)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "inventory item")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Inventory item updated successfully",
		"item":    updated,
	})
}

// DeleteInventoryItem handles DELETE /inventory/:id
func (h *InventoryHandlers) DeleteInventoryItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("id"), "inventory id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.inventoryService.Delete(ctx, itemID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "inventory item")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to delete inventory item")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Inventory item deleted successfully",
	})
}

// ListInventoryItems handles GET /inventory
func (h *InventoryHandlers) ListInventoryItems(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c, 20)

	items, err := h.inventoryService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list inventory")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}
