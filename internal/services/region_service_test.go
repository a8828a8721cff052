package services

import (
	"context"
	"errors"
	"testing"

	"agrilink/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RegionServiceTestSuite struct {
	suite.Suite
	mockRegionRepo *MockRegionRepository
	mockUserRepo   *MockUserRepository
	mockCache      *MockCacheService
	service        RegionService
}

func (suite *RegionServiceTestSuite) SetupTest() {
	suite.mockRegionRepo = &MockRegionRepository{}
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewRegionService(suite.mockRegionRepo, suite.mockUserRepo, suite.mockCache)
}

func (suite *RegionServiceTestSuite) TearDownTest() {
	suite.mockRegionRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestRegionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegionServiceTestSuite))
}

func (suite *RegionServiceTestSuite) TestCreate_SourceRegionSuccess() {
	region := &models.Region{
		RegionName: "North Valley",
		RegionType: models.RegionTypeSource,
	}

	suite.mockRegionRepo.On("ExistsByNameAndType", mock.Anything, "North Valley", models.RegionTypeSource, (*uuid.UUID)(nil)).Return(false, nil)
	suite.mockRegionRepo.On("Create", mock.Anything, region).Return(nil)
	suite.mockCache.On("InvalidateRegions", mock.Anything).Return(nil)

	created, err := suite.service.Create(context.Background(), region)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, created.RegionID)
}

func (suite *RegionServiceTestSuite) TestCreate_EmptyNameRejected() {
	region := &models.Region{
		RegionName: "   ",
		RegionType: models.RegionTypeSource,
	}

	_, err := suite.service.Create(context.Background(), region)

	suite.ErrorContains(err, "region name is required")
}

func (suite *RegionServiceTestSuite) TestCreate_SourceRegionCannotHaveParent() {
	parentID := uuid.New()
	region := &models.Region{
		RegionName:     "North Valley",
		RegionType:     models.RegionTypeSource,
		ParentRegionID: &parentID,
	}

	_, err := suite.service.Create(context.Background(), region)

	suite.ErrorContains(err, "source regions cannot have a parent region")
}

func (suite *RegionServiceTestSuite) TestCreate_MinorRequiresMajorParent() {
	parentID := uuid.New()
	level := models.DistributionLevelMinor
	region := &models.Region{
		RegionName:        "East Hub",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &level,
		ParentRegionID:    &parentID,
	}

	localLevel := models.DistributionLevelLocal
	suite.mockRegionRepo.On("GetByID", mock.Anything, parentID).Return(&models.Region{
		RegionID:          parentID,
		RegionName:        "Some Local",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &localLevel,
	}, nil)

	_, err := suite.service.Create(context.Background(), region)

	suite.ErrorContains(err, "minor distribution regions must have a major parent")
}

func (suite *RegionServiceTestSuite) TestCreate_DuplicateNameConflicts() {
	region := &models.Region{
		RegionName: "North Valley",
		RegionType: models.RegionTypeSource,
	}

	suite.mockRegionRepo.On("ExistsByNameAndType", mock.Anything, "North Valley", models.RegionTypeSource, (*uuid.UUID)(nil)).Return(true, nil)

	_, err := suite.service.Create(context.Background(), region)

	suite.ErrorIs(err, ErrConflict)
}

func (suite *RegionServiceTestSuite) TestDelete_BlockedByChildren() {
	regionID := uuid.New()
	level := models.DistributionLevelMajor

	suite.mockRegionRepo.On("GetByID", mock.Anything, regionID).Return(&models.Region{
		RegionID:          regionID,
		RegionName:        "West Major",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &level,
	}, nil)
	suite.mockRegionRepo.On("HasChildren", mock.Anything, regionID).Return(true, nil)

	err := suite.service.Delete(context.Background(), regionID)

	suite.ErrorIs(err, ErrConflict)
}

func (suite *RegionServiceTestSuite) TestSetDefault_DistributionRequiresAmbassador() {
	regionID := uuid.New()
	userID := uuid.New()
	level := models.DistributionLevelLocal

	suite.mockRegionRepo.On("GetByID", mock.Anything, regionID).Return(&models.Region{
		RegionID:          regionID,
		RegionName:        "Village A",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &level,
	}, nil)
	suite.mockUserRepo.On("GetRoles", mock.Anything, userID).Return([]string{models.RoleBuyer}, nil)

	err := suite.service.SetDefault(context.Background(), regionID, userID)

	suite.ErrorContains(err, "ambassador")
}

func (suite *RegionServiceTestSuite) TestList_CacheHitSkipsRepo() {
	cached := []*models.RegionRow{
		{Region: models.Region{RegionID: uuid.New(), RegionName: "Cached", RegionType: models.RegionTypeSource}},
	}
	suite.mockCache.On("GetRegionList", mock.Anything).Return(cached, nil)

	regions, err := suite.service.List(context.Background())

	suite.NoError(err)
	suite.Equal(cached, regions)
	suite.mockRegionRepo.AssertNotCalled(suite.T(), "List", mock.Anything)
}

func (suite *RegionServiceTestSuite) hierarchy() (major, minor, localA, localB *models.Region) {
	majorLevel := models.DistributionLevelMajor
	minorLevel := models.DistributionLevelMinor
	localLevel := models.DistributionLevelLocal

	major = &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "South Major",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &majorLevel,
	}
	minor = &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "South Minor",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &minorLevel,
		ParentRegionID:    &major.RegionID,
	}
	localA = &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "Village A",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &localLevel,
		ParentRegionID:    &minor.RegionID,
	}
	localB = &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "Village B",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &localLevel,
		ParentRegionID:    &minor.RegionID,
	}
	return major, minor, localA, localB
}

func (suite *RegionServiceTestSuite) TestRegroupLocals_Success() {
	major, minor, localA, localB := suite.hierarchy()

	suite.mockRegionRepo.On("GetByID", mock.Anything, major.RegionID).Return(major, nil)
	suite.mockRegionRepo.On("ExistsByNameAndType", mock.Anything, "New Minor", models.RegionTypeDistribution, (*uuid.UUID)(nil)).Return(false, nil)
	suite.mockRegionRepo.On("ListByIDs", mock.Anything, []uuid.UUID{localA.RegionID, localB.RegionID}).Return([]*models.Region{localA, localB}, nil)
	suite.mockRegionRepo.On("GetByID", mock.Anything, minor.RegionID).Return(minor, nil)
	suite.mockRegionRepo.On("RegroupLocals", mock.Anything, mock.AnythingOfType("*models.Region"), []uuid.UUID{localA.RegionID, localB.RegionID}).Return(nil)
	suite.mockCache.On("InvalidateRegions", mock.Anything).Return(nil)

	// Duplicate IDs collapse while keeping first-seen order.
	result, err := suite.service.RegroupLocals(context.Background(), &models.RegroupRequest{
		MajorRegionID:  major.RegionID,
		NewMinorName:   "New Minor",
		LocalRegionIDs: []uuid.UUID{localA.RegionID, localB.RegionID, localA.RegionID},
	})

	suite.NoError(err)
	suite.Equal("New Minor", result.NewMinorRegion.RegionName)
	suite.Equal(models.DistributionLevelMinor, result.NewMinorRegion.Level())
	suite.Equal(major.RegionID, *result.NewMinorRegion.ParentRegionID)
	suite.Len(result.MovedLocalRegionIDs, 2)
}

func (suite *RegionServiceTestSuite) TestRegroupLocals_RejectsForeignLocal() {
	major, _, localA, _ := suite.hierarchy()

	otherMajorLevel := models.DistributionLevelMajor
	otherMajor := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "Other Major",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &otherMajorLevel,
	}
	foreignMinorLevel := models.DistributionLevelMinor
	foreignMinor := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "Foreign Minor",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &foreignMinorLevel,
		ParentRegionID:    &otherMajor.RegionID,
	}
	localA.ParentRegionID = &foreignMinor.RegionID

	suite.mockRegionRepo.On("GetByID", mock.Anything, major.RegionID).Return(major, nil)
	suite.mockRegionRepo.On("ExistsByNameAndType", mock.Anything, "New Minor", models.RegionTypeDistribution, (*uuid.UUID)(nil)).Return(false, nil)
	suite.mockRegionRepo.On("ListByIDs", mock.Anything, []uuid.UUID{localA.RegionID}).Return([]*models.Region{localA}, nil)
	suite.mockRegionRepo.On("GetByID", mock.Anything, foreignMinor.RegionID).Return(foreignMinor, nil)

	_, err := suite.service.RegroupLocals(context.Background(), &models.RegroupRequest{
		MajorRegionID:  major.RegionID,
		NewMinorName:   "New Minor",
		LocalRegionIDs: []uuid.UUID{localA.RegionID},
	})

	suite.ErrorContains(err, "does not belong to the selected major region")
}

func (suite *RegionServiceTestSuite) TestRegroupLocals_DuplicateMinorName() {
	major, _, localA, _ := suite.hierarchy()

	suite.mockRegionRepo.On("GetByID", mock.Anything, major.RegionID).Return(major, nil)
	suite.mockRegionRepo.On("ExistsByNameAndType", mock.Anything, "South Minor", models.RegionTypeDistribution, (*uuid.UUID)(nil)).Return(true, nil)

	_, err := suite.service.RegroupLocals(context.Background(), &models.RegroupRequest{
		MajorRegionID:  major.RegionID,
		NewMinorName:   "South Minor",
		LocalRegionIDs: []uuid.UUID{localA.RegionID},
	})

	suite.ErrorIs(err, ErrConflict)
}

func (suite *RegionServiceTestSuite) TestRegroupLocals_MajorNotFound() {
	majorID := uuid.New()
	suite.mockRegionRepo.On("GetByID", mock.Anything, majorID).Return(nil, errors.New("no rows"))

	_, err := suite.service.RegroupLocals(context.Background(), &models.RegroupRequest{
		MajorRegionID:  majorID,
		NewMinorName:   "New Minor",
		LocalRegionIDs: []uuid.UUID{uuid.New()},
	})

	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RegionServiceTestSuite) TestParentOptions_MinorLevelListsMajors() {
	major, minor, localA, _ := suite.hierarchy()
	rows := []*models.RegionRow{
		{Region: *major},
		{Region: *minor},
		{Region: *localA},
	}
	suite.mockCache.On("GetRegionList", mock.Anything).Return(rows, nil)

	options, err := suite.service.ParentOptions(context.Background(), models.DistributionLevelMinor)

	suite.NoError(err)
	suite.Len(options, 1)
	suite.Equal(major.RegionID, options[0].RegionID)
}

func (suite *RegionServiceTestSuite) TestParentOptions_UnknownLevelRejected() {
	_, err := suite.service.ParentOptions(context.Background(), "continental")

	suite.EqualError(err, "level must be minor or local")
}

func (suite *RegionServiceTestSuite) TestEligibleLocals_FiltersByMajorAncestor() {
	major, minor, localA, localB := suite.hierarchy()

	otherLevel := models.DistributionLevelMajor
	otherMajor := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "West Major",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &otherLevel,
	}
	otherMinorLevel := models.DistributionLevelMinor
	otherMinor := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "West Minor",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &otherMinorLevel,
		ParentRegionID:    &otherMajor.RegionID,
	}
	foreignLevel := models.DistributionLevelLocal
	foreignLocal := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "West Village",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &foreignLevel,
		ParentRegionID:    &otherMinor.RegionID,
	}

	rows := []*models.RegionRow{
		{Region: *major}, {Region: *minor}, {Region: *localA}, {Region: *localB},
		{Region: *otherMajor}, {Region: *otherMinor}, {Region: *foreignLocal},
	}
	suite.mockRegionRepo.On("GetByID", mock.Anything, major.RegionID).Return(major, nil)
	suite.mockCache.On("GetRegionList", mock.Anything).Return(rows, nil)

	locals, err := suite.service.EligibleLocals(context.Background(), major.RegionID)

	suite.NoError(err)
	suite.Len(locals, 2)
	ids := []uuid.UUID{locals[0].RegionID, locals[1].RegionID}
	suite.Contains(ids, localA.RegionID)
	suite.Contains(ids, localB.RegionID)
}

func (suite *RegionServiceTestSuite) TestEligibleLocals_RejectsNonMajor() {
	_, minor, _, _ := suite.hierarchy()
	suite.mockRegionRepo.On("GetByID", mock.Anything, minor.RegionID).Return(minor, nil)

	_, err := suite.service.EligibleLocals(context.Background(), minor.RegionID)

	suite.Error(err)
	suite.Contains(err.Error(), "not a major distribution region")
}
