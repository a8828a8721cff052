package repositories

import (
	"context"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

type RegionRepository interface {
	Create(ctx context.Context, region *models.Region) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error)
	Update(ctx context.Context, region *models.Region) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.RegionRow, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Region, error)
	ExistsByNameAndType(ctx context.Context, name, regionType string, excludeID *uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	GetDefault(ctx context.Context, regionID uuid.UUID) (*models.RegionDefault, error)
	UpsertDefault(ctx context.Context, def *models.RegionDefault) error
	RegroupLocals(ctx context.Context, newMinor *models.Region, localIDs []uuid.UUID) error
}

type regionRepo struct {
	db DB
}

func NewRegionRepo(db DB) RegionRepository {
	return &regionRepo{db: db}
}

func (r *regionRepo) Create(ctx context.Context, region *models.Region) error {
	query := `
		INSERT INTO regions (region_id, region_name, region_description, region_type, distribution_level, parent_region_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, region.RegionID, region.RegionName, region.RegionDescription,
		region.RegionType, region.DistributionLevel, region.ParentRegionID)
	return err
}

func (r *regionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	region := &models.Region{}
	query := `
		SELECT region_id, region_name, region_description, region_type, distribution_level, parent_region_id
		FROM regions
		WHERE region_id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&region.RegionID, &region.RegionName, &region.RegionDescription,
		&region.RegionType, &region.DistributionLevel, &region.ParentRegionID)
	if err != nil {
		return nil, err
	}
	return region, nil
}

func (r *regionRepo) Update(ctx context.Context, region *models.Region) error {
	query := `
		UPDATE regions
		SET region_name = $1, region_description = $2, region_type = $3, distribution_level = $4, parent_region_id = $5
		WHERE region_id = $6
	`
	_, err := r.db.Exec(ctx, query, region.RegionName, region.RegionDescription, region.RegionType,
		region.DistributionLevel, region.ParentRegionID, region.RegionID)
	return err
}

func (r *regionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM regions WHERE region_id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *regionRepo) List(ctx context.Context) ([]*models.RegionRow, error) {
	query := `
		SELECT r.region_id, r.region_name, r.region_description, r.region_type, r.distribution_level, r.parent_region_id,
		       p.region_name, d.default_admin_user_id, d.default_ambassador_user_id
		FROM regions r
		LEFT JOIN regions p ON p.region_id = r.parent_region_id
		LEFT JOIN region_defaults d ON d.region_id = r.region_id
		ORDER BY r.region_type, r.distribution_level NULLS FIRST, r.region_name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []*models.RegionRow
	for rows.Next() {
		row := &models.RegionRow{}
		if err := rows.Scan(&row.RegionID, &row.RegionName, &row.RegionDescription, &row.RegionType,
			&row.DistributionLevel, &row.ParentRegionID, &row.ParentRegionName,
			&row.DefaultAdminUserID, &row.DefaultAmbassadorUserID); err != nil {
			return nil, err
		}
		regions = append(regions, row)
	}
	return regions, nil
}

func (r *regionRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Region, error) {
	query := `
		SELECT region_id, region_name, region_description, region_type, distribution_level, parent_region_id
		FROM regions
		WHERE region_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []*models.Region
	for rows.Next() {
		region := &models.Region{}
		if err := rows.Scan(&region.RegionID, &region.RegionName, &region.RegionDescription,
			&region.RegionType, &region.DistributionLevel, &region.ParentRegionID); err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func (r *regionRepo) ExistsByNameAndType(ctx context.Context, name, regionType string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	if excludeID != nil {
		query := `SELECT EXISTS(SELECT 1 FROM regions WHERE lower(region_name) = lower($1) AND region_type = $2 AND region_id <> $3)`
		err := r.db.QueryRow(ctx, query, name, regionType, *excludeID).Scan(&exists)
		return exists, err
	}
	query := `SELECT EXISTS(SELECT 1 FROM regions WHERE lower(region_name) = lower($1) AND region_type = $2)`
	err := r.db.QueryRow(ctx, query, name, regionType).Scan(&exists)
	return exists, err
}

func (r *regionRepo) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM regions WHERE parent_region_id = $1)`
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *regionRepo) GetDefault(ctx context.Context, regionID uuid.UUID) (*models.RegionDefault, error) {
	def := &models.RegionDefault{}
	query := `
		SELECT id, region_id, default_admin_user_id, default_ambassador_user_id
		FROM region_defaults
		WHERE region_id = $1
	`
	err := r.db.QueryRow(ctx, query, regionID).Scan(&def.ID, &def.RegionID, &def.DefaultAdminUserID, &def.DefaultAmbassadorUserID)
	if err != nil {
		return nil, err
	}
	return def, nil
}

func (r *regionRepo) UpsertDefault(ctx context.Context, def *models.RegionDefault) error {
	query := `
		INSERT INTO region_defaults (id, region_id, default_admin_user_id, default_ambassador_user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (region_id) DO UPDATE SET default_admin_user_id = EXCLUDED.default_admin_user_id, default_ambassador_user_id = EXCLUDED.default_ambassador_user_id
	`
	_, err := r.db.Exec(ctx, query, def.ID, def.RegionID, def.DefaultAdminUserID, def.DefaultAmbassadorUserID)
	return err
}

// RegroupLocals creates the new minor region and repoints the given local
// regions at it in one transaction.
func (r *regionRepo) RegroupLocals(ctx context.Context, newMinor *models.Region, localIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO regions (region_id, region_name, region_description, region_type, distribution_level, parent_region_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, insert, newMinor.RegionID, newMinor.RegionName, newMinor.RegionDescription,
		newMinor.RegionType, newMinor.DistributionLevel, newMinor.ParentRegionID); err != nil {
		return err
	}

	update := `UPDATE regions SET parent_region_id = $1 WHERE region_id = ANY($2)`
	if _, err := tx.Exec(ctx, update, newMinor.RegionID, localIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
