package models

import (
	"time"

	"github.com/google/uuid"
)

// Seller validation statuses
const (
	SellerStatusPending = "pending"
	SellerStatusValid   = "valid"
	SellerStatusInvalid = "invalid"
)

type User struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Phone            *string    `json:"phone" db:"phone"`
	RegionID         *uuid.UUID `json:"region_id" db:"region_id"`
	AssignedAdminID  *uuid.UUID `json:"assigned_admin_id" db:"assigned_admin_id"`
	ValidationStatus string     `json:"validation_status" db:"validation_status"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// UserRow is a user with role names joined in for list responses.
type UserRow struct {
	User
	Roles []string `json:"roles"`
}

func (u *UserRow) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// BuyerGroup assigns buyers to an ambassador inside a local region.
type BuyerGroup struct {
	ID            uuid.UUID `json:"id" db:"id"`
	GroupName     string    `json:"group_name" db:"group_name"`
	AmbassadorID  uuid.UUID `json:"ambassador_id" db:"ambassador_id"`
	LocalRegionID uuid.UUID `json:"local_region_id" db:"local_region_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type BuyerGroupMember struct {
	ID      uuid.UUID `json:"id" db:"id"`
	GroupID uuid.UUID `json:"group_id" db:"group_id"`
	BuyerID uuid.UUID `json:"buyer_id" db:"buyer_id"`
}
