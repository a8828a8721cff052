package models

import (
	"github.com/google/uuid"
)

// Role names known to the system. Roles beyond these can be created by a
// super admin but carry no built-in behaviour.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleAmbassador = "ambassador"
	RoleSeller     = "seller"
	RoleSupplier   = "supplier"
	RoleBuyer      = "buyer"
	RoleSupportOps = "support_ops"
)

type Role struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
}

type Permission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
}

type UserRole struct {
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	RoleID uuid.UUID `json:"role_id" db:"role_id"`
}

type RolePermission struct {
	RoleID       uuid.UUID `json:"role_id" db:"role_id"`
	PermissionID uuid.UUID `json:"permission_id" db:"permission_id"`
}

// IsAdminRole reports whether the role name grants admin-level access.
func IsAdminRole(name string) bool {
	return name == RoleAdmin || name == RoleSuperAdmin
}
