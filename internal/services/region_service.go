package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"agrilink/internal/caching"
	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

const (
	maxRegionNameLen        = 150
	maxRegionDescriptionLen = 1500

	regionCacheTTL = 5 * time.Minute
)

type RegionService interface {
	Create(ctx context.Context, region *models.Region) (*models.Region, error)
	Update(ctx context.Context, region *models.Region) (*models.Region, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error)
	List(ctx context.Context) ([]*models.RegionRow, error)
	SetDefault(ctx context.Context, regionID, userID uuid.UUID) error
	ParentOptions(ctx context.Context, level string) ([]*models.RegionRow, error)
	EligibleLocals(ctx context.Context, majorID uuid.UUID) ([]*models.RegionRow, error)
	RegroupLocals(ctx context.Context, req *models.RegroupRequest) (*models.RegroupResult, error)
}

type regionService struct {
	regionRepo repositories.RegionRepository
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
}

func NewRegionService(regionRepo repositories.RegionRepository, userRepo repositories.UserRepository, cacheSvc caching.CacheService) RegionService {
	return &regionService{
		regionRepo: regionRepo,
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
	}
}

// validate enforces the region shape rules shared by create and update.
func (s *regionService) validate(region *models.Region) error {
	region.RegionName = strings.TrimSpace(region.RegionName)
	if region.RegionName == "" {
		return fmt.Errorf("region name is required")
	}
	if len(region.RegionName) > maxRegionNameLen {
		return fmt.Errorf("region name cannot exceed %d characters", maxRegionNameLen)
	}
	if region.RegionDescription != nil && len(*region.RegionDescription) > maxRegionDescriptionLen {
		return fmt.Errorf("region description cannot exceed %d characters", maxRegionDescriptionLen)
	}

	switch region.RegionType {
	case models.RegionTypeSource:
		if region.DistributionLevel != nil {
			return fmt.Errorf("source regions cannot have a distribution level")
		}
		if region.ParentRegionID != nil {
			return fmt.Errorf("source regions cannot have a parent region")
		}
	case models.RegionTypeDistribution:
		level := region.Level()
		switch level {
		case models.DistributionLevelMajor:
			if region.ParentRegionID != nil {
				return fmt.Errorf("major distribution regions cannot have a parent region")
			}
		case models.DistributionLevelMinor, models.DistributionLevelLocal:
			if region.ParentRegionID == nil {
				return fmt.Errorf("%s distribution regions require a parent region", level)
			}
		default:
			return fmt.Errorf("distribution level must be major, minor or local")
		}
	default:
		return fmt.Errorf("region type must be source or distribution")
	}
	return nil
}

// validateParent checks the parent exists and sits one level up.
func (s *regionService) validateParent(ctx context.Context, region *models.Region) error {
	if region.ParentRegionID == nil {
		return nil
	}
	parent, err := s.regionRepo.GetByID(ctx, *region.ParentRegionID)
	if err != nil {
		return fmt.Errorf("parent region %w", ErrNotFound)
	}
	if !parent.IsDistribution() {
		return fmt.Errorf("parent region must be a distribution region")
	}
	switch region.Level() {
	case models.DistributionLevelMinor:
		if parent.Level() != models.DistributionLevelMajor {
			return fmt.Errorf("minor distribution regions must have a major parent")
		}
	case models.DistributionLevelLocal:
		if parent.Level() != models.DistributionLevelMinor {
			return fmt.Errorf("local distribution regions must have a minor parent")
		}
	}
	return nil
}

func (s *regionService) Create(ctx context.Context, region *models.Region) (*models.Region, error) {
	if err := s.validate(region); err != nil {
		return nil, err
	}
	if err := s.validateParent(ctx, region); err != nil {
		return nil, err
	}

	exists, err := s.regionRepo.ExistsByNameAndType(ctx, region.RegionName, region.RegionType, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check region name: %v", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: a %s region named %q already exists", ErrConflict, region.RegionType, region.RegionName)
	}

	region.RegionID = uuid.New()
	if err := s.regionRepo.Create(ctx, region); err != nil {
		return nil, fmt.Errorf("failed to create region: %v", err)
	}
	s.invalidate(ctx)
	return region, nil
}

func (s *regionService) Update(ctx context.Context, region *models.Region) (*models.Region, error) {
	if _, err := s.regionRepo.GetByID(ctx, region.RegionID); err != nil {
		return nil, fmt.Errorf("region %w", ErrNotFound)
	}
	if err := s.validate(region); err != nil {
		return nil, err
	}
	if region.ParentRegionID != nil && *region.ParentRegionID == region.RegionID {
		return nil, fmt.Errorf("a region cannot be its own parent")
	}
	if err := s.validateParent(ctx, region); err != nil {
		return nil, err
	}

	exists, err := s.regionRepo.ExistsByNameAndType(ctx, region.RegionName, region.RegionType, &region.RegionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check region name: %v", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: a %s region named %q already exists", ErrConflict, region.RegionType, region.RegionName)
	}

	if err := s.regionRepo.Update(ctx, region); err != nil {
		return nil, fmt.Errorf("failed to update region: %v", err)
	}
	s.invalidate(ctx)
	return region, nil
}

func (s *regionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.regionRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("region %w", ErrNotFound)
	}
	hasChildren, err := s.regionRepo.HasChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check child regions: %v", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: region has child regions and cannot be deleted", ErrConflict)
	}
	if err := s.regionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete region: %v", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *regionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	region, err := s.regionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("region %w", ErrNotFound)
	}
	return region, nil
}

func (s *regionService) List(ctx context.Context) ([]*models.RegionRow, error) {
	if cached, err := s.cacheSvc.GetRegionList(ctx); err == nil && cached != nil {
		return cached, nil
	}
	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %v", err)
	}
	if err := s.cacheSvc.SetRegionList(ctx, regions, regionCacheTTL); err != nil {
		log.Printf("Failed to cache region list: %v", err)
	}
	return regions, nil
}

// SetDefault wires a user as the region's default contact. Source regions
// take an admin, distribution regions take an ambassador, and the opposite
// slot is cleared.
func (s *regionService) SetDefault(ctx context.Context, regionID, userID uuid.UUID) error {
	region, err := s.regionRepo.GetByID(ctx, regionID)
	if err != nil {
		return fmt.Errorf("region %w", ErrNotFound)
	}

	roles, err := s.userRepo.GetRoles(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	hasRole := func(name string) bool {
		for _, r := range roles {
			if r == name {
				return true
			}
		}
		return false
	}

	def := &models.RegionDefault{ID: uuid.New(), RegionID: regionID}
	if region.RegionType == models.RegionTypeSource {
		if !hasRole(models.RoleAdmin) && !hasRole(models.RoleSuperAdmin) {
			return fmt.Errorf("default user for a source region must hold the admin role")
		}
		def.DefaultAdminUserID = &userID
	} else {
		if !hasRole(models.RoleAmbassador) {
			return fmt.Errorf("default user for a distribution region must hold the ambassador role")
		}
		def.DefaultAmbassadorUserID = &userID
	}

	if err := s.regionRepo.UpsertDefault(ctx, def); err != nil {
		return fmt.Errorf("failed to set region default: %v", err)
	}
	s.invalidate(ctx)
	return nil
}

// ParentOptions lists the valid parents for a new region at the given level:
// minors attach to majors, locals attach to minors.
func (s *regionService) ParentOptions(ctx context.Context, level string) ([]*models.RegionRow, error) {
	var parentLevel string
	switch level {
	case models.DistributionLevelMinor:
		parentLevel = models.DistributionLevelMajor
	case models.DistributionLevelLocal:
		parentLevel = models.DistributionLevelMinor
	default:
		return nil, fmt.Errorf("level must be minor or local")
	}

	regions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	options := []*models.RegionRow{}
	for _, row := range regions {
		if row.IsDistribution() && row.Level() == parentLevel {
			options = append(options, row)
		}
	}
	return options, nil
}

// EligibleLocals lists the local regions whose derived major ancestor is the
// given major, i.e. the candidates for a regroup under that major.
func (s *regionService) EligibleLocals(ctx context.Context, majorID uuid.UUID) ([]*models.RegionRow, error) {
	major, err := s.regionRepo.GetByID(ctx, majorID)
	if err != nil {
		return nil, fmt.Errorf("major region %w", ErrNotFound)
	}
	if !major.IsDistribution() || major.Level() != models.DistributionLevelMajor {
		return nil, fmt.Errorf("region %q is not a major distribution region", major.RegionName)
	}

	regions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Region, len(regions))
	for _, row := range regions {
		byID[row.RegionID] = &row.Region
	}

	locals := []*models.RegionRow{}
	for _, row := range regions {
		if !row.IsDistribution() || row.Level() != models.DistributionLevelLocal {
			continue
		}
		if ancestor, ok := models.MajorAncestorID(&row.Region, byID); ok && ancestor == majorID {
			locals = append(locals, row)
		}
	}
	return locals, nil
}

// RegroupLocals creates a new minor region under the given major and moves
// the listed local regions under it atomically.
func (s *regionService) RegroupLocals(ctx context.Context, req *models.RegroupRequest) (*models.RegroupResult, error) {
	req.NewMinorName = strings.TrimSpace(req.NewMinorName)
	if req.NewMinorName == "" {
		return nil, fmt.Errorf("new minor region name is required")
	}
	if len(req.NewMinorName) > maxRegionNameLen {
		return nil, fmt.Errorf("new minor region name cannot exceed %d characters", maxRegionNameLen)
	}
	if len(req.LocalRegionIDs) == 0 {
		return nil, fmt.Errorf("at least one local region is required")
	}

	major, err := s.regionRepo.GetByID(ctx, req.MajorRegionID)
	if err != nil {
		return nil, fmt.Errorf("major region %w", ErrNotFound)
	}
	if !major.IsDistribution() || major.Level() != models.DistributionLevelMajor {
		return nil, fmt.Errorf("target region must be a major distribution region")
	}

	exists, err := s.regionRepo.ExistsByNameAndType(ctx, req.NewMinorName, models.RegionTypeDistribution, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check region name: %v", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: a distribution region named %q already exists", ErrConflict, req.NewMinorName)
	}

	// Dedup while preserving first-seen order
	seen := make(map[uuid.UUID]bool)
	var localIDs []uuid.UUID
	for _, id := range req.LocalRegionIDs {
		if !seen[id] {
			seen[id] = true
			localIDs = append(localIDs, id)
		}
	}

	locals, err := s.regionRepo.ListByIDs(ctx, localIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load local regions: %v", err)
	}
	byID := make(map[uuid.UUID]*models.Region, len(locals))
	for _, l := range locals {
		byID[l.RegionID] = l
	}

	for _, id := range localIDs {
		local, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("local region %s %w", id, ErrNotFound)
		}
		if !local.IsDistribution() || local.Level() != models.DistributionLevelLocal {
			return nil, fmt.Errorf("region %q is not a local distribution region", local.RegionName)
		}
		if local.ParentRegionID == nil {
			return nil, fmt.Errorf("local region %q has no parent minor region", local.RegionName)
		}
		minor, err := s.regionRepo.GetByID(ctx, *local.ParentRegionID)
		if err != nil {
			return nil, fmt.Errorf("parent of local region %q %w", local.RegionName, ErrNotFound)
		}
		if minor.ParentRegionID == nil || *minor.ParentRegionID != major.RegionID {
			return nil, fmt.Errorf("local region %q does not belong to the selected major region", local.RegionName)
		}
	}

	level := models.DistributionLevelMinor
	newMinor := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        req.NewMinorName,
		RegionDescription: req.NewMinorDescription,
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &level,
		ParentRegionID:    &major.RegionID,
	}

	if err := s.regionRepo.RegroupLocals(ctx, newMinor, localIDs); err != nil {
		return nil, fmt.Errorf("failed to regroup local regions: %v", err)
	}
	s.invalidate(ctx)

	moved := append([]uuid.UUID(nil), localIDs...)
	sort.Slice(moved, func(i, j int) bool { return moved[i].String() < moved[j].String() })

	return &models.RegroupResult{
		NewMinorRegion:      newMinor,
		MovedLocalRegionIDs: moved,
	}, nil
}

func (s *regionService) invalidate(ctx context.Context) {
	if err := s.cacheSvc.InvalidateRegions(ctx); err != nil {
		log.Printf("Failed to invalidate region cache: %v", err)
	}
}
