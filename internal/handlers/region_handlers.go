package handlers

import (
	"errors"
	"net/http"
	"strings"

	"agrilink/internal/common"
	"agrilink/internal/models"
	"agrilink/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RegionHandlers handles HTTP requests for the region hierarchy
type RegionHandlers struct {
	regionService services.RegionService
}

// NewRegionHandlers creates a new region handlers instance
func NewRegionHandlers(regionService services.RegionService) *RegionHandlers {
	return &RegionHandlers{regionService: regionService}
}

type regionRequest struct {
	RegionName        string  `json:"region_name"`
	RegionDescription *string `json:"region_description"`
	RegionType        string  `json:"region_type"`
	DistributionLevel *string `json:"distribution_level"`
	ParentRegionID    *string `json:"parent_region_id"`
}

func (h *RegionHandlers) regionFromRequest(req *regionRequest) (*models.Region, error) {
	if strings.TrimSpace(req.RegionName) == "" {
		return nil, errors.New("region_name is required")
	}
	parentID, err := parseOptionalUUID(req.ParentRegionID, "parent_region_id")
	if err != nil {
		return nil, err
	}
	return &models.Region{
		RegionName:        strings.TrimSpace(req.RegionName),
		RegionDescription: req.RegionDescription,
		RegionType:        req.RegionType,
		DistributionLevel: req.DistributionLevel,
		ParentRegionID:    parentID,
	}, nil
}

// CreateRegion handles POST /admin/regions
func (h *RegionHandlers) CreateRegion(c echo.Context) error {
	ctx := c.Request().Context()

	var req regionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	region, err := h.regionFromRequest(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	created, err := h.regionService.Create(ctx, region)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Region created successfully",
		"region":  created,
	})
}

// ListRegions handles GET /regions
func (h *RegionHandlers) ListRegions(c echo.Context) error {
	ctx := c.Request().Context()

	regions, err := h.regionService.List(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list regions")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"regions": regions,
		"count":   len(regions),
	})
}

// GetRegionByID handles GET /regions/:id
func (h *RegionHandlers) GetRegionByID(c echo.Context) error {
	ctx := c.Request().Context()

	regionID, err := common.ValidateUUID(c.Param("id"), "region id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	region, err := h.regionService.GetByID(ctx, regionID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "region")
		}
		return common.SendServerError(c, "Failed to load region")
	}

	return c.JSON(http.StatusOK, region)
}

// UpdateRegion handles PUT /admin/regions/:id
func (h *RegionHandlers) UpdateRegion(c echo.Context) error {
	ctx := c.Request().Context()

	regionID, err := common.ValidateUUID(c.Param("id"), "region id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req regionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	region, err := h.regionFromRequest(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	region.RegionID = regionID

	updated, err := h.regionService.Update(ctx, region)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "region")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Region updated successfully",
		"region":  updated,
	})
}

// DeleteRegion handles DELETE /admin/regions/:id
func (h *RegionHandlers) DeleteRegion(c echo.Context) error {
	ctx := c.Request().Context()

	regionID, err := common.ValidateUUID(c.Param("id"), "region id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.regionService.Delete(ctx, regionID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "region")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to delete region")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Region deleted successfully",
	})
}

// ListParentOptions handles GET /admin/regions/distribution/parent-options.
// The level query parameter names the level of the region being created.
func (h *RegionHandlers) ListParentOptions(c echo.Context) error {
	ctx := c.Request().Context()

	options, err := h.regionService.ParentOptions(ctx, c.QueryParam("level"))
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"regions": options,
		"count":   len(options),
	})
}

// ListEligibleLocals handles GET /admin/regions/distribution/:majorId/eligible-locals
func (h *RegionHandlers) ListEligibleLocals(c echo.Context) error {
	ctx := c.Request().Context()

	majorID, err := common.ValidateUUID(c.Param("majorId"), "major region id")
	if err != nil {
		return common.SendValidationError(c, "majorId", err.Error())
	}

	locals, err := h.regionService.EligibleLocals(ctx, majorID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "region")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"regions": locals,
		"count":   len(locals),
	})
}

// SetDefaultUser handles PUT /admin/regions/:id/defaults
func (h *RegionHandlers) SetDefaultUser(c echo.Context) error {
	ctx := c.Request().Context()

	regionID, err := common.ValidateUUID(c.Param("id"), "region id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	userID, err := common.ValidateUUID(req.UserID, "user_id")
	if err != nil {
		return common.SendValidationError(c, "user_id", err.Error())
	}

	if err := h.regionService.SetDefault(ctx, regionID, userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "region")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Default user set for region",
	})
}

// RegroupLocalRegions handles POST /admin/regions/distribution/regroup-local
func (h *RegionHandlers) RegroupLocalRegions(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		MajorRegionID       string   `json:"major_region_id"`
		NewMinorName        string   `json:"new_minor_name"`
		NewMinorDescription *string  `json:"new_minor_description"`
		LocalRegionIDs      []string `json:"local_region_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	majorID, err := common.ValidateUUID(req.MajorRegionID, "major_region_id")
	if err != nil {
		return common.SendValidationError(c, "major_region_id", err.Error())
	}
	if len(req.LocalRegionIDs) == 0 {
		return common.SendValidationError(c, "local_region_ids", "at least one local region is required")
	}

	localIDs := make([]uuid.UUID, 0, len(req.LocalRegionIDs))
	for _, raw := range req.LocalRegionIDs {
		id, err := common.ValidateUUID(raw, "local_region_ids")
		if err != nil {
			return common.SendValidationError(c, "local_region_ids", err.Error())
		}
		localIDs = append(localIDs, id)
	}

	result, err := h.regionService.RegroupLocals(ctx, &models.RegroupRequest{
		MajorRegionID:       majorID,
		NewMinorName:        req.NewMinorName,
		NewMinorDescription: req.NewMinorDescription,
		LocalRegionIDs:      localIDs,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "region")
		}
		if errors.Is(err, services.ErrConflict) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":                "local regions regrouped under new minor distribution region",
		"new_minor_region":       result.NewMinorRegion,
		"moved_local_region_ids": result.MovedLocalRegionIDs,
	})
}
