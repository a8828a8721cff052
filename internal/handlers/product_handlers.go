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

// ProductHandlers handles HTTP requests for products and product types
type ProductHandlers struct {
	productService services.ProductService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type productRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	ProductTypeID *string `json:"product_type_id"`
	UnitOfMeasure *string `json:"unit_of_measure"`
	IsActive      *bool   `json:"is_active"`
}

func (h *ProductHandlers) productFromRequest(req *productRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("product name is required")
	}
	typeID, err := parseOptionalUUID(req.ProductTypeID, "product_type_id")
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		ProductTypeID: typeID,
		UnitOfMeasure: req.UnitOfMeasure,
		IsActive:      true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	return product, nil
}

// CreateProduct handles POST /admin/products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product, err := h.productFromRequest(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	created, err := h.productService.Create(ctx, product)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "product type")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": created,
	})
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c, 20)

	products, err := h.productService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetProductByID handles GET /products/:id
func (h *ProductHandlers) GetProductByID(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	product, err := h.productService.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "product")
		}
		return common.SendServerError(c, "Failed to load product")
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product, err := h.productFromRequest(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	product.ID = productID

	updated, err := h.productService.Update(ctx, product)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "product")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": updated,
	})
}

// CreateProductType handles POST /admin/product-types
func (h *ProductHandlers) CreateProductType(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.Name) == "" {
		return common.SendValidationError(c, "name", "product type name is required")
	}

	productType, err := h.productService.CreateType(ctx, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "Product type created successfully",
		"product_type": productType,
	})
}

// ListProductTypes handles GET /product-types
func (h *ProductHandlers) ListProductTypes(c echo.Context) error {
	ctx := c.Request().Context()

	types, err := h.productService.ListTypes(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list product types")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"product_types": types,
		"count":         len(types),
	})
}
