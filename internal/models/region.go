package models

import (
	"github.com/google/uuid"
)

// Region types
const (
	RegionTypeSource       = "source"
	RegionTypeDistribution = "distribution"
)

// Distribution levels, nested major -> minor -> local
const (
	DistributionLevelMajor = "major"
	DistributionLevelMinor = "minor"
	DistributionLevelLocal = "local"
)

type Region struct {
	RegionID          uuid.UUID  `json:"region_id" db:"region_id"`
	RegionName        string     `json:"region_name" db:"region_name"`
	RegionDescription *string    `json:"region_description" db:"region_description"`
	RegionType        string     `json:"region_type" db:"region_type"`
	DistributionLevel *string    `json:"distribution_level" db:"distribution_level"`
	ParentRegionID    *uuid.UUID `json:"parent_region_id" db:"parent_region_id"`
}

// RegionDefault holds the default admin (source regions) or default
// ambassador (distribution regions) for a region. At most one row per region.
type RegionDefault struct {
	ID                       uuid.UUID  `json:"id" db:"id"`
	RegionID                 uuid.UUID  `json:"region_id" db:"region_id"`
	DefaultAdminUserID       *uuid.UUID `json:"default_admin_user_id" db:"default_admin_user_id"`
	DefaultAmbassadorUserID  *uuid.UUID `json:"default_ambassador_user_id" db:"default_ambassador_user_id"`
}

// RegionRow is the list/detail response shape with parent name and defaults joined in.
type RegionRow struct {
	Region
	ParentRegionName        *string    `json:"parent_region_name"`
	DefaultAdminUserID      *uuid.UUID `json:"default_admin_user_id"`
	DefaultAmbassadorUserID *uuid.UUID `json:"default_ambassador_user_id"`
}

// Level returns the distribution level or "" for source regions.
func (r *Region) Level() string {
	if r.DistributionLevel == nil {
		return ""
	}
	return *r.DistributionLevel
}

// IsDistribution reports whether the region belongs to the distribution tree.
func (r *Region) IsDistribution() bool {
	return r.RegionType == RegionTypeDistribution
}

// LevelRank orders distribution levels major < minor < local for display.
func LevelRank(level string) int {
	switch level {
	case DistributionLevelMajor:
		return 1
	case DistributionLevelMinor:
		return 2
	case DistributionLevelLocal:
		return 3
	}
	return 9
}

// MajorAncestorID derives the owning major region by walking parent links:
// major regions are their own ancestor, minors point at their parent and
// locals at their parent's parent. Returns uuid.Nil, false when the region is
// not part of a well formed distribution subtree.
func MajorAncestorID(region *Region, byID map[uuid.UUID]*Region) (uuid.UUID, bool) {
	if region == nil || !region.IsDistribution() {
		return uuid.Nil, false
	}
	switch region.Level() {
	case DistributionLevelMajor:
		return region.RegionID, true
	case DistributionLevelMinor:
		if region.ParentRegionID == nil {
			return uuid.Nil, false
		}
		return *region.ParentRegionID, true
	case DistributionLevelLocal:
		if region.ParentRegionID == nil {
			return uuid.Nil, false
		}
		minor, ok := byID[*region.ParentRegionID]
		if !ok || minor.Level() != DistributionLevelMinor || minor.ParentRegionID == nil {
			return uuid.Nil, false
		}
		return *minor.ParentRegionID, true
	}
	return uuid.Nil, false
}

// RegroupRequest moves a set of local regions under a newly created minor
// region of the given major. The whole operation is transactional.
type RegroupRequest struct {
	MajorRegionID       uuid.UUID   `json:"major_region_id"`
	NewMinorName        string      `json:"new_minor_name"`
	NewMinorDescription *string     `json:"new_minor_description"`
	LocalRegionIDs      []uuid.UUID `json:"local_region_ids"`
}

type RegroupResult struct {
	NewMinorRegion       *Region     `json:"new_minor_region"`
	MovedLocalRegionIDs  []uuid.UUID `json:"moved_local_region_ids"`
}
