package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func distRegion(name, level string, parent *uuid.UUID) *Region {
	l := level
	return &Region{
		RegionID:          uuid.New(),
		RegionName:        name,
		RegionType:        RegionTypeDistribution,
		DistributionLevel: &l,
		ParentRegionID:    parent,
	}
}

func TestMajorAncestorID(t *testing.T) {
	major := distRegion("Major", DistributionLevelMajor, nil)
	minor := distRegion("Minor", DistributionLevelMinor, &major.RegionID)
	local := distRegion("Local", DistributionLevelLocal, &minor.RegionID)
	byID := map[uuid.UUID]*Region{
		major.RegionID: major,
		minor.RegionID: minor,
		local.RegionID: local,
	}

	t.Run("major is its own ancestor", func(t *testing.T) {
		id, ok := MajorAncestorID(major, byID)
		assert.True(t, ok)
		assert.Equal(t, major.RegionID, id)
	})

	t.Run("minor resolves to its parent", func(t *testing.T) {
		id, ok := MajorAncestorID(minor, byID)
		assert.True(t, ok)
		assert.Equal(t, major.RegionID, id)
	})

	t.Run("local walks two levels up", func(t *testing.T) {
		id, ok := MajorAncestorID(local, byID)
		assert.True(t, ok)
		assert.Equal(t, major.RegionID, id)
	})

	t.Run("source region has no ancestor", func(t *testing.T) {
		source := &Region{RegionID: uuid.New(), RegionName: "Source", RegionType: RegionTypeSource}
		_, ok := MajorAncestorID(source, byID)
		assert.False(t, ok)
	})

	t.Run("orphan local fails", func(t *testing.T) {
		orphan := distRegion("Orphan", DistributionLevelLocal, nil)
		_, ok := MajorAncestorID(orphan, byID)
		assert.False(t, ok)
	})

	t.Run("local under unknown minor fails", func(t *testing.T) {
		ghost := uuid.New()
		stray := distRegion("Stray", DistributionLevelLocal, &ghost)
		_, ok := MajorAncestorID(stray, byID)
		assert.False(t, ok)
	})
}

func TestLevelRank(t *testing.T) {
	assert.Less(t, LevelRank(DistributionLevelMajor), LevelRank(DistributionLevelMinor))
	assert.Less(t, LevelRank(DistributionLevelMinor), LevelRank(DistributionLevelLocal))
	assert.Greater(t, LevelRank("unknown"), LevelRank(DistributionLevelLocal))
}
