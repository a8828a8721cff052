package services

import (
	"context"
	"fmt"

	"agrilink/internal/models"
	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

// AmbassadorScope is what an ambassador sees of their region: the summary
// line, fellow ambassadors and visible buyers, all depending on the level of
// the region they are assigned to.
type AmbassadorScope struct {
	Summary     string            `json:"summary"`
	Level       string            `json:"level"`
	Ambassadors []*models.UserRow `json:"ambassadors"`
	Buyers      []*models.UserRow `json:"buyers"`
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserRow, error)
	List(ctx context.Context, limit, offset int) ([]*models.UserRow, error)
	ListByRole(ctx context.Context, roleName string) ([]*models.UserRow, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error
	RemoveRole(ctx context.Context, userID uuid.UUID, roleName string) error
	SetSellerValidation(ctx context.Context, sellerID uuid.UUID, status string) error
	ReassignSellerAdmin(ctx context.Context, sellerID uuid.UUID, adminID *uuid.UUID) error
	Scope(ctx context.Context, ambassadorID uuid.UUID) (*AmbassadorScope, error)

	CreateBuyerGroup(ctx context.Context, group *models.BuyerGroup) (*models.BuyerGroup, error)
	DeleteBuyerGroup(ctx context.Context, id uuid.UUID) error
	ListBuyerGroups(ctx context.Context, ambassadorID uuid.UUID) ([]*models.BuyerGroup, error)
	AddBuyerToGroup(ctx context.Context, groupID, buyerID uuid.UUID) error
	RemoveBuyerFromGroup(ctx context.Context, groupID, buyerID uuid.UUID) error
}

type userService struct {
	userRepo       repositories.UserRepository
	roleRepo       repositories.RoleRepository
	regionRepo     repositories.RegionRepository
	buyerGroupRepo repositories.BuyerGroupRepository
}

func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository,
	regionRepo repositories.RegionRepository, buyerGroupRepo repositories.BuyerGroupRepository) UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		regionRepo:     regionRepo,
		buyerGroupRepo: buyerGroupRepo,
	}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.UserRow, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	roles, err := s.userRepo.GetRoles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %v", err)
	}
	return &models.UserRow{User: *user, Roles: roles}, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.UserRow, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *userService) ListByRole(ctx context.Context, roleName string) ([]*models.UserRow, error) {
	return s.userRepo.ListByRole(ctx, roleName)
}

func (s *userService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return fmt.Errorf("role %w", ErrNotFound)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	return s.roleRepo.AssignToUser(ctx, userID, role.ID)
}

func (s *userService) RemoveRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return fmt.Errorf("role %w", ErrNotFound)
	}
	return s.roleRepo.RemoveFromUser(ctx, userID, role.ID)
}

// SetSellerValidation moves a seller between pending, valid and invalid.
// Only valid sellers show as orderable in the catalog.
func (s *userService) SetSellerValidation(ctx context.Context, sellerID uuid.UUID, status string) error {
	switch status {
	case models.SellerStatusPending, models.SellerStatusValid, models.SellerStatusInvalid:
	default:
		return fmt.Errorf("validation status must be pending, valid or invalid")
	}

	roles, err := s.userRepo.GetRoles(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	isSeller := false
	for _, r := range roles {
		if r == models.RoleSeller {
			isSeller = true
			break
		}
	}
	if !isSeller {
		return fmt.Errorf("user does not hold the seller role")
	}
	return s.userRepo.SetValidationStatus(ctx, sellerID, status)
}

// ReassignSellerAdmin points a seller at a different managing admin. A nil
// adminID clears the assignment.
func (s *userService) ReassignSellerAdmin(ctx context.Context, sellerID uuid.UUID, adminID *uuid.UUID) error {
	roles, err := s.userRepo.GetRoles(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	isSeller := false
	for _, r := range roles {
		if r == models.RoleSeller {
			isSeller = true
			break
		}
	}
	if !isSeller {
		return fmt.Errorf("user does not hold the seller role")
	}

	if adminID != nil {
		adminRoles, err := s.userRepo.GetRoles(ctx, *adminID)
		if err != nil {
			return fmt.Errorf("admin user %w", ErrNotFound)
		}
		isAdmin := false
		for _, r := range adminRoles {
			if models.IsAdminRole(r) {
				isAdmin = true
				break
			}
		}
		if !isAdmin {
			return fmt.Errorf("assigned user does not hold an admin role")
		}
	}
	return s.userRepo.SetAssignedAdmin(ctx, sellerID, adminID)
}

// Scope resolves what an ambassador can see based on their region's level.
func (s *userService) Scope(ctx context.Context, ambassadorID uuid.UUID) (*AmbassadorScope, error) {
	me, err := s.userRepo.GetByID(ctx, ambassadorID)
	if err != nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if me.RegionID == nil {
		return nil, fmt.Errorf("ambassador has no region assigned")
	}
	region, err := s.regionRepo.GetByID(ctx, *me.RegionID)
	if err != nil {
		return nil, fmt.Errorf("region %w", ErrNotFound)
	}
	if !region.IsDistribution() {
		return nil, fmt.Errorf("ambassador region must be a distribution region")
	}

	all, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %v", err)
	}
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, r := range all {
		if r.ParentRegionID != nil {
			children[*r.ParentRegionID] = append(children[*r.ParentRegionID], r.RegionID)
		}
	}

	switch region.Level() {
	case models.DistributionLevelMajor:
		return s.majorScope(ctx, region, children)
	case models.DistributionLevelMinor:
		return s.minorScope(ctx, region, children)
	case models.DistributionLevelLocal:
		return s.localScope(ctx, ambassadorID, region)
	}
	return nil, fmt.Errorf("region has no distribution level")
}

func (s *userService) majorScope(ctx context.Context, major *models.Region, children map[uuid.UUID][]uuid.UUID) (*AmbassadorScope, error) {
	regionIDs := []uuid.UUID{major.RegionID}
	for _, minorID := range children[major.RegionID] {
		regionIDs = append(regionIDs, minorID)
		regionIDs = append(regionIDs, children[minorID]...)
	}

	users, err := s.userRepo.ListByRegions(ctx, regionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list region users: %v", err)
	}
	ambassadors, buyers := splitByRole(users)

	return &AmbassadorScope{
		Summary: fmt.Sprintf("Major region scope: showing %d ambassadors and %d buyers in this major distribution region.",
			len(ambassadors), len(buyers)),
		Level:       models.DistributionLevelMajor,
		Ambassadors: ambassadors,
		Buyers:      buyers,
	}, nil
}

func (s *userService) minorScope(ctx context.Context, minor *models.Region, children map[uuid.UUID][]uuid.UUID) (*AmbassadorScope, error) {
	localIDs := children[minor.RegionID]
	regionIDs := append([]uuid.UUID{minor.RegionID}, localIDs...)

	users, err := s.userRepo.ListByRegions(ctx, regionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list region users: %v", err)
	}

	assigned := make(map[uuid.UUID]bool)
	if len(localIDs) > 0 {
		assignedIDs, err := s.buyerGroupRepo.ListAssignedBuyers(ctx, localIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list assigned buyers: %v", err)
		}
		for _, id := range assignedIDs {
			assigned[id] = true
		}
	}

	localSet := make(map[uuid.UUID]bool, len(localIDs))
	for _, id := range localIDs {
		localSet[id] = true
	}

	var ambassadors, buyers []*models.UserRow
	for _, u := range users {
		switch {
		case u.HasRole(models.RoleAmbassador):
			// Only local ambassadors, not the minor's own
			if u.RegionID != nil && localSet[*u.RegionID] {
				ambassadors = append(ambassadors, u)
			}
		case u.HasRole(models.RoleBuyer):
			if !assigned[u.ID] {
				buyers = append(buyers, u)
			}
		}
	}

	return &AmbassadorScope{
		Summary: fmt.Sprintf("Minor region scope: showing %d local ambassadors and %d buyers that are not assigned to local ambassadors.",
			len(ambassadors), len(buyers)),
		Level:       models.DistributionLevelMinor,
		Ambassadors: ambassadors,
		Buyers:      buyers,
	}, nil
}

func (s *userService) localScope(ctx context.Context, ambassadorID uuid.UUID, local *models.Region) (*AmbassadorScope, error) {
	groups, err := s.buyerGroupRepo.ListByAmbassador(ctx, ambassadorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buyer groups: %v", err)
	}

	seen := make(map[uuid.UUID]bool)
	var buyers []*models.UserRow
	for _, group := range groups {
		members, err := s.buyerGroupRepo.ListMembers(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list group members: %v", err)
		}
		for _, buyerID := range members {
			if seen[buyerID] {
				continue
			}
			seen[buyerID] = true
			buyer, err := s.GetByID(ctx, buyerID)
			if err != nil {
				continue
			}
			buyers = append(buyers, buyer)
		}
	}

	return &AmbassadorScope{
		Summary:     fmt.Sprintf("Local region scope: showing your local assignments. Visible buyers: %d.", len(buyers)),
		Level:       models.DistributionLevelLocal,
		Ambassadors: nil,
		Buyers:      buyers,
	}, nil
}

func splitByRole(users []*models.UserRow) (ambassadors, buyers []*models.UserRow) {
	for _, u := range users {
		switch {
		case u.HasRole(models.RoleAmbassador):
			ambassadors = append(ambassadors, u)
		case u.HasRole(models.RoleBuyer):
			buyers = append(buyers, u)
		}
	}
	return ambassadors, buyers
}

func (s *userService) CreateBuyerGroup(ctx context.Context, group *models.BuyerGroup) (*models.BuyerGroup, error) {
	if group.GroupName == "" {
		return nil, fmt.Errorf("group name is required")
	}
	region, err := s.regionRepo.GetByID(ctx, group.LocalRegionID)
	if err != nil {
		return nil, fmt.Errorf("local region %w", ErrNotFound)
	}
	if !region.IsDistribution() || region.Level() != models.DistributionLevelLocal {
		return nil, fmt.Errorf("buyer groups belong to local distribution regions")
	}
	roles, err := s.userRepo.GetRoles(ctx, group.AmbassadorID)
	if err != nil {
		return nil, fmt.Errorf("ambassador %w", ErrNotFound)
	}
	isAmbassador := false
	for _, r := range roles {
		if r == models.RoleAmbassador {
			isAmbassador = true
			break
		}
	}
	if !isAmbassador {
		return nil, fmt.Errorf("group owner must hold the ambassador role")
	}

	group.ID = uuid.New()
	if err := s.buyerGroupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create buyer group: %v", err)
	}
	return group, nil
}

func (s *userService) DeleteBuyerGroup(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buyerGroupRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("buyer group %w", ErrNotFound)
	}
	return s.buyerGroupRepo.Delete(ctx, id)
}

func (s *userService) ListBuyerGroups(ctx context.Context, ambassadorID uuid.UUID) ([]*models.BuyerGroup, error) {
	return s.buyerGroupRepo.ListByAmbassador(ctx, ambassadorID)
}

func (s *userService) AddBuyerToGroup(ctx context.Context, groupID, buyerID uuid.UUID) error {
	if _, err := s.buyerGroupRepo.GetByID(ctx, groupID); err != nil {
		return fmt.Errorf("buyer group %w", ErrNotFound)
	}
	roles, err := s.userRepo.GetRoles(ctx, buyerID)
	if err != nil {
		return fmt.Errorf("buyer %w", ErrNotFound)
	}
	isBuyer := false
	for _, r := range roles {
		if r == models.RoleBuyer {
			isBuyer = true
			break
		}
	}
	if !isBuyer {
		return fmt.Errorf("user does not hold the buyer role")
	}
	return s.buyerGroupRepo.AddMember(ctx, &models.BuyerGroupMember{
		ID:      uuid.New(),
		GroupID: groupID,
		BuyerID: buyerID,
	})
}

func (s *userService) RemoveBuyerFromGroup(ctx context.Context, groupID, buyerID uuid.UUID) error {
	return s.buyerGroupRepo.RemoveMember(ctx, groupID, buyerID)
}
