package handlers

import (
	"net/http"

	"agrilink/internal/common"
	"agrilink/internal/models"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// CatalogHandlers handles HTTP requests for the buyer-facing catalog
type CatalogHandlers struct {
	catalogService services.CatalogService
}

// NewCatalogHandlers creates a new catalog handlers instance
func NewCatalogHandlers(catalogService services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalogService: catalogService}
}

// Browse handles GET /orders/catalog
func (h *CatalogHandlers) Browse(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.CatalogFilter{
		ProductType:  c.QueryParam("product_type"),
		ProductName:  c.QueryParam("product_name"),
		SellerName:   c.QueryParam("seller_name"),
		SupplierName: c.QueryParam("supplier_name"),
	}

	items, err := h.catalogService.Browse(ctx, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to load catalog")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}
