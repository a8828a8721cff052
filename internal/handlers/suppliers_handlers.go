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

// SupplierHandlers handles HTTP requests for suppliers and the products
// linked to them.
type SupplierHandlers struct {
	supplierService services.SupplierService
}

// NewSupplierHandlers creates a new supplier handlers instance
func NewSupplierHandlers(supplierService services.SupplierService) *SupplierHandlers {
	return &SupplierHandlers{supplierService: supplierService}
}

type supplierRequest struct {
	SupplierName string  `json:"supplier_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	IsActive     *bool   `json:"is_active"`
}

// CreateSupplier handles POST /admin/suppliers
func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	var req supplierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.SupplierName) == "" {
		return common.SendValidationError(c, "supplier_name", "supplier name is required")
	}

	supplier := &models.Supplier{
		SupplierName: strings.TrimSpace(req.SupplierName),
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		IsActive:     true,
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	created, err := h.supplierService.Create(ctx, supplier)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Supplier created successfully",
		"supplier": created,
	})
}

// ListSuppliers handles GET /suppliers
func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c, 20)

	suppliers, err := h.supplierService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list suppliers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetSupplierByID handles GET /suppliers/:id
func (h *SupplierHandlers) GetSupplierByID(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	supplier, err := h.supplierService.GetByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "supplier")
		}
		return common.SendServerError(c, "Failed to load supplier")
	}

	return c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier handles PUT /admin/suppliers/:id
func (h *SupplierHandlers) UpdateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req supplierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.SupplierName) == "" {
		return common.SendValidationError(c, "supplier_name", "supplier name is required")
	}

	supplier := &models.Supplier{
		ID:           supplierID,
		SupplierName: strings.TrimSpace(req.SupplierName),
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		IsActive:     true,
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	updated, err := h.supplierService.Update(ctx, supplier)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "supplier")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Supplier updated successfully",
		"supplier": updated,
	})
}

// LinkProduct handles POST /admin/suppliers/:id/products
func (h *SupplierHandlers) LinkProduct(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		ProductID    string   `json:"product_id"`
		SupplierType string   `json:"supplier_type"`
		UnitPrice    *float64 `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", err.Error())
	}

	link, err := h.supplierService.LinkProduct(ctx, supplierID, productID, req.SupplierType, req.UnitPrice)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "supplier or product")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product linked to supplier",
		"link":    link,
	})
}

// ListProductLinks handles GET /suppliers/:id/products
func (h *SupplierHandlers) ListProductLinks(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	links, err := h.supplierService.ListProductLinks(ctx, supplierID)
	if err != nil {
		return common.SendServerError(c, "Failed to list supplier products")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"links": links,
		"count": len(links),
	})
}

// UnlinkProduct handles DELETE /admin/suppliers/:id/products/:linkId
func (h *SupplierHandlers) UnlinkProduct(c echo.Context) error {
	ctx := c.Request().Context()

	linkID, err := common.ValidateUUID(c.Param("linkId"), "link id")
	if err != nil {
		return common.SendValidationError(c, "linkId", err.Error())
	}

	if err := h.supplierService.UnlinkProduct(ctx, linkID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "supplier product link")
		}
		return common.SendServerError(c, "Failed to unlink product")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Product unlinked from supplier",
	})
}
