package repositories

import (
	"context"

	"agrilink/internal/models"

	"github.com/google/uuid"
)

type BuyerGroupRepository interface {
	Create(ctx context.Context, group *models.BuyerGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BuyerGroup, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAmbassador(ctx context.Context, ambassadorID uuid.UUID) ([]*models.BuyerGroup, error)
	ListByLocalRegion(ctx context.Context, localRegionID uuid.UUID) ([]*models.BuyerGroup, error)
	AddMember(ctx context.Context, member *models.BuyerGroupMember) error
	RemoveMember(ctx context.Context, groupID, buyerID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	CountAssignedBuyers(ctx context.Context, localRegionIDs []uuid.UUID) (int, error)
	ListAssignedBuyers(ctx context.Context, localRegionIDs []uuid.UUID) ([]uuid.UUID, error)
}

type buyerGroupRepo struct {
	db DB
}

func NewBuyerGroupRepo(db DB) BuyerGroupRepository {
	return &buyerGroupRepo{db: db}
}

func (r *buyerGroupRepo) Create(ctx context.Context, group *models.BuyerGroup) error {
	query := `
		INSERT INTO buyer_groups (id, group_name, ambassador_id, local_region_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, group.ID, group.GroupName, group.AmbassadorID, group.LocalRegionID)
	return err
}

func (r *buyerGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BuyerGroup, error) {
	group := &models.BuyerGroup{}
	query := `
		SELECT id, group_name, ambassador_id, local_region_id, created_at
		FROM buyer_groups
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&group.ID, &group.GroupName, &group.AmbassadorID,
		&group.LocalRegionID, &group.CreatedAt)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *buyerGroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM buyer_groups WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *buyerGroupRepo) ListByAmbassador(ctx context.Context, ambassadorID uuid.UUID) ([]*models.BuyerGroup, error) {
	query := `
		SELECT id, group_name, ambassador_id, local_region_id, created_at
		FROM buyer_groups
		WHERE ambassador_id = $1
		ORDER BY group_name
	`
	rows, err := r.db.Query(ctx, query, ambassadorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuyerGroups(rows)
}

func (r *buyerGroupRepo) ListByLocalRegion(ctx context.Context, localRegionID uuid.UUID) ([]*models.BuyerGroup, error) {
	query := `
		SELECT id, group_name, ambassador_id, local_region_id, created_at
		FROM buyer_groups
		WHERE local_region_id = $1
		ORDER BY group_name
	`
	rows, err := r.db.Query(ctx, query, localRegionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuyerGroups(rows)
}

func scanBuyerGroups(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.BuyerGroup, error) {
	var groups []*models.BuyerGroup
	for rows.Next() {
		group := &models.BuyerGroup{}
		if err := rows.Scan(&group.ID, &group.GroupName, &group.AmbassadorID,
			&group.LocalRegionID, &group.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (r *buyerGroupRepo) AddMember(ctx context.Context, member *models.BuyerGroupMember) error {
	query := `
		INSERT INTO buyer_group_members (id, group_id, buyer_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, buyer_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, member.ID, member.GroupID, member.BuyerID)
	return err
}

func (r *buyerGroupRepo) RemoveMember(ctx context.Context, groupID, buyerID uuid.UUID) error {
	query := `DELETE FROM buyer_group_members WHERE group_id = $1 AND buyer_id = $2`
	_, err := r.db.Exec(ctx, query, groupID, buyerID)
	return err
}

func (r *buyerGroupRepo) ListMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT buyer_id FROM buyer_group_members WHERE group_id = $1`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buyers []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		buyers = append(buyers, id)
	}
	return buyers, nil
}

// CountAssignedBuyers counts distinct buyers who belong to a group in any of
// the given local regions.
func (r *buyerGroupRepo) CountAssignedBuyers(ctx context.Context, localRegionIDs []uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(DISTINCT m.buyer_id)
		FROM buyer_group_members m
		JOIN buyer_groups g ON g.id = m.group_id
		WHERE g.local_region_id = ANY($1)
	`
	err := r.db.QueryRow(ctx, query, localRegionIDs).Scan(&count)
	return count, err
}

// ListAssignedBuyers returns the distinct buyers who belong to a group in any
// of the given local regions.
func (r *buyerGroupRepo) ListAssignedBuyers(ctx context.Context, localRegionIDs []uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT m.buyer_id
		FROM buyer_group_members m
		JOIN buyer_groups g ON g.id = m.group_id
		WHERE g.local_region_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, localRegionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buyers []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		buyers = append(buyers, id)
	}
	return buyers, nil
}
