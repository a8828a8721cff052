package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"agrilink/internal/common"
	"agrilink/internal/models"
	"agrilink/internal/services"

	"github.com/labstack/echo/v4"
)

// ProcurementHandlers handles HTTP requests for the procurement lifecycle
// and procurement reviews.
type ProcurementHandlers struct {
	procurementService services.ProcurementService
}

// NewProcurementHandlers creates a new procurement handlers instance
func NewProcurementHandlers(procurementService services.ProcurementService) *ProcurementHandlers {
	return &ProcurementHandlers{procurementService: procurementService}
}

// maxReviewImageSize caps each uploaded review image at 5MB.
const maxReviewImageSize = 5 * 1024 * 1024

// CreateProcurement handles POST /procurement
func (h *ProcurementHandlers) CreateProcurement(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		SupplierID string  `json:"supplier_id"`
		ProductID  string  `json:"product_id"`
		Quantity   int     `json:"quantity"`
		UnitPrice  float64 `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	supplierID, err := common.ValidateUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return common.SendValidationError(c, "supplier_id", err.Error())
	}
	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", err.Error())
	}

	order, err := h.procurementService.Create(ctx, supplierID, productID, req.Quantity, req.UnitPrice, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "supplier product link")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":     "Procurement order created successfully",
		"procurement": order,
	})
}

// GetProcurement handles GET /procurement/:id
func (h *ProcurementHandlers) GetProcurement(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "procurement id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.procurementService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "procurement order")
		}
		return common.SendServerError(c, "Failed to load procurement order")
	}

	return c.JSON(http.StatusOK, order)
}

// UpdateProcurement handles PUT /procurement/:id
func (h *ProcurementHandlers) UpdateProcurement(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "procurement id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Quantity  int     `json:"quantity"`
		UnitPrice float64 `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	order, err := h.procurementService.Update(ctx, id, req.Quantity, req.UnitPrice)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "procurement order")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Procurement order updated successfully",
		"procurement": order,
	})
}

// UpdateProcurementStatus handles PATCH /procurement/:id/status
func (h *ProcurementHandlers) UpdateProcurementStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "procurement id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	order, err := h.procurementService.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "procurement order")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Procurement status updated successfully",
		"procurement": order,
	})
}

// PushToInventory handles POST /procurement/:id/push-to-inventory
func (h *ProcurementHandlers) PushToInventory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "procurement id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.procurementService.PushToInventory(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "procurement order")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Procurement order pushed to inventory",
		"procurement": order,
	})
}

// ListProcurements handles GET /procurement
func (h *ProcurementHandlers) ListProcurements(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.ProcurementFilter{
		Status: c.QueryParam("status"),
	}

	if raw := c.QueryParam("supplier_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "supplier_id")
		if err != nil {
			return common.SendValidationError(c, "supplier_id", err.Error())
		}
		filter.SupplierID = &id
	}
	if raw := c.QueryParam("product_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "product_id")
		if err != nil {
			return common.SendValidationError(c, "product_id", err.Error())
		}
		filter.ProductID = &id
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	filter.Page, filter.PageSize = common.ValidatePaginationParams(page, pageSize)

	result, err := h.procurementService.List(ctx, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list procurement orders")
	}

	return c.JSON(http.StatusOK, result)
}

// ListProcurementOptions handles GET /procurement/options. Draft orders are
// excluded unless include_draft=true.
func (h *ProcurementHandlers) ListProcurementOptions(c echo.Context) error {
	ctx := c.Request().Context()

	includeDraft := c.QueryParam("include_draft") == "true"

	options, err := h.procurementService.ListOptions(ctx, includeDraft)
	if err != nil {
		return common.SendServerError(c, "Failed to list procurement options")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"options": options,
		"count":   len(options),
	})
}

// SubmitReview handles POST /procurement/:id/review, either as a multipart
// form with rating, review_text and optional image files, or as plain JSON
// without images.
func (h *ProcurementHandlers) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "procurement id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var (
		rating     int
		reviewText string
		uploads    []services.ReviewImageUpload
	)
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var req struct {
			Rating     int    `json:"rating"`
			ReviewText string `json:"review_text"`
		}
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
		}
		rating = req.Rating
		reviewText = req.ReviewText
	} else {
		rating, err = strconv.Atoi(c.FormValue("rating"))
		if err != nil {
			return common.SendValidationError(c, "rating", "rating must be an integer")
		}
		reviewText = c.FormValue("review_text")

		form, err := c.MultipartForm()
		if err == nil && form != nil {
			files := form.File["images"]
			for _, file := range files {
				if file.Size > maxReviewImageSize {
					return common.SendValidationError(c, "images", "image exceeds maximum size of 5MB")
				}
				src, err := file.Open()
				if err != nil {
					return common.SendServerError(c, "Failed to read uploaded image")
				}
				defer src.Close()
				uploads = append(uploads, services.ReviewImageUpload{
					Filename: file.Filename,
					Size:     file.Size,
					Reader:   src,
				})
			}
		}
	}

	result, err := h.procurementService.SubmitReview(ctx, id, userID, rating, reviewText, uploads)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "procurement order")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	status := http.StatusOK
	message := "review updated"
	if result.Created {
		status = http.StatusCreated
		message = "review created"
	}

	return c.JSON(status, map[string]interface{}{
		"message": message,
		"review":  result.Review,
		"history": result.History,
		"images":  result.Images,
	})
}

// GetReview handles GET /procurement/:id/review
func (h *ProcurementHandlers) GetReview(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "procurement id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.procurementService.GetReview(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "review")
		}
		return common.SendServerError(c, "Failed to load review")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"review":  result.Review,
		"history": result.History,
		"images":  result.Images,
	})
}
