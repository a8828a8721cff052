package repositories

import (
	"context"
	"testing"

	"agrilink/internal/models"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegionRepoMock(t *testing.T) (RegionRepository, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRegionRepo(mock), mock
}

func TestRegionRepoCreate(t *testing.T) {
	repo, mock := newRegionRepoMock(t)

	level := models.DistributionLevelMinor
	parentID := uuid.New()
	region := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "East Hub",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &level,
		ParentRegionID:    &parentID,
	}

	mock.ExpectExec("INSERT INTO regions").
		WithArgs(region.RegionID, region.RegionName, region.RegionDescription,
			region.RegionType, region.DistributionLevel, region.ParentRegionID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), region)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegionRepoGetByID(t *testing.T) {
	repo, mock := newRegionRepoMock(t)

	regionID := uuid.New()
	rows := pgxmock.NewRows([]string{"region_id", "region_name", "region_description", "region_type", "distribution_level", "parent_region_id"}).
		AddRow(regionID, "North Valley", (*string)(nil), models.RegionTypeSource, (*string)(nil), (*uuid.UUID)(nil))

	mock.ExpectQuery("SELECT region_id, region_name, region_description, region_type, distribution_level, parent_region_id").
		WithArgs(regionID).
		WillReturnRows(rows)

	region, err := repo.GetByID(context.Background(), regionID)

	assert.NoError(t, err)
	assert.Equal(t, "North Valley", region.RegionName)
	assert.Equal(t, models.RegionTypeSource, region.RegionType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegionRepoExistsByNameAndType(t *testing.T) {
	repo, mock := newRegionRepoMock(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM regions WHERE lower\(region_name\) = lower\(\$1\) AND region_type = \$2\)`).
		WithArgs("North Valley", models.RegionTypeSource).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByNameAndType(context.Background(), "North Valley", models.RegionTypeSource, nil)

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegionRepoExistsByNameAndTypeWithExclusion(t *testing.T) {
	repo, mock := newRegionRepoMock(t)

	excludeID := uuid.New()
	mock.ExpectQuery(`region_id <> \$3`).
		WithArgs("North Valley", models.RegionTypeSource, excludeID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByNameAndType(context.Background(), "North Valley", models.RegionTypeSource, &excludeID)

	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegionRepoRegroupLocalsCommits(t *testing.T) {
	repo, mock := newRegionRepoMock(t)

	level := models.DistributionLevelMinor
	majorID := uuid.New()
	newMinor := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "New Minor",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &level,
		ParentRegionID:    &majorID,
	}
	localIDs := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO regions").
		WithArgs(newMinor.RegionID, newMinor.RegionName, newMinor.RegionDescription,
			newMinor.RegionType, newMinor.DistributionLevel, newMinor.ParentRegionID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE regions SET parent_region_id").
		WithArgs(newMinor.RegionID, localIDs).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	err := repo.RegroupLocals(context.Background(), newMinor, localIDs)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegionRepoRegroupLocalsRollsBackOnFailure(t *testing.T) {
	repo, mock := newRegionRepoMock(t)

	level := models.DistributionLevelMinor
	majorID := uuid.New()
	newMinor := &models.Region{
		RegionID:          uuid.New(),
		RegionName:        "New Minor",
		RegionType:        models.RegionTypeDistribution,
		DistributionLevel: &level,
		ParentRegionID:    &majorID,
	}
	localIDs := []uuid.UUID{uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO regions").
		WithArgs(newMinor.RegionID, newMinor.RegionName, newMinor.RegionDescription,
			newMinor.RegionType, newMinor.DistributionLevel, newMinor.ParentRegionID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.RegroupLocals(context.Background(), newMinor, localIDs)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
