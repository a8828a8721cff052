package services

import (
	"context"

	"agrilink/internal/repositories"

	"github.com/google/uuid"
)

type RBACService interface {
	UserHasPermission(ctx context.Context, userID uuid.UUID, permissionName string) (bool, error)
	GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
	UserHasRole(ctx context.Context, userID uuid.UUID, roleName string) (bool, error)
}

type rbacService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

func NewRBACService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository) RBACService {
	return &rbacService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *rbacService) UserHasPermission(ctx context.Context, userID uuid.UUID, permissionName string) (bool, error) {
	perms, err := s.roleRepo.GetPermissionsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == permissionName {
			return true, nil
		}
	}
	return false, nil
}

func (s *rbacService) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.roleRepo.GetPermissionsForUser(ctx, userID)
}

func (s *rbacService) UserHasRole(ctx context.Context, userID uuid.UUID, roleName string) (bool, error) {
	roles, err := s.userRepo.GetRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == roleName {
			return true, nil
		}
	}
	return false, nil
}
