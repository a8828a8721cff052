package models

import (
	"time"

	"github.com/google/uuid"
)

// Inventory kinds
const (
	InventoryKindRegular      = "regular"
	InventoryKindFreshProduce = "fresh_produce"
)

// Inventory origins
const (
	InventoryOriginManual      = "manual"
	InventoryOriginProcurement = "procurement"
)

// InventoryItem is a stock row owned by either a seller or a supplier,
// exactly one of SellerID/SupplierID is set. Regular rows track Quantity,
// fresh produce rows track EstimatedQuantity with a validity window after
// which the row no longer counts as available.
type InventoryItem struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Kind              string     `json:"kind" db:"kind"`
	ProductID         uuid.UUID  `json:"product_id" db:"product_id"`
	SellerID          *uuid.UUID `json:"seller_id" db:"seller_id"`
	SupplierID        *uuid.UUID `json:"supplier_id" db:"supplier_id"`
	Quantity          int        `json:"quantity" db:"quantity"`
	EstimatedQuantity int        `json:"estimated_quantity" db:"estimated_quantity"`
	ReservedQuantity  int        `json:"reserved_quantity" db:"reserved_quantity"`
	UnitPrice         float64    `json:"unit_price" db:"unit_price"`
	ValidityDays      *int       `json:"validity_days" db:"validity_days"`
	Origin            string     `json:"origin" db:"origin"`
	SupplierType      *string    `json:"supplier_type" db:"supplier_type"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// StoredQuantity returns the kind-appropriate stock figure.
func (i *InventoryItem) StoredQuantity() int {
	if i.Kind == InventoryKindFreshProduce {
		return i.EstimatedQuantity
	}
	return i.Quantity
}

// Expired reports whether a fresh produce row has passed its validity window.
// Regular rows and rows without a validity window never expire.
func (i *InventoryItem) Expired(now time.Time) bool {
	if i.Kind != InventoryKindFreshProduce || i.ValidityDays == nil {
		return false
	}
	return !i.UpdatedAt.AddDate(0, 0, *i.ValidityDays).After(now)
}

// AvailableQuantity is stored minus reserved, floored at zero, and zero
// outright for expired rows.
func (i *InventoryItem) AvailableQuantity(now time.Time) int {
	if i.Expired(now) {
		return 0
	}
	avail := i.StoredQuantity() - i.ReservedQuantity
	if avail < 0 {
		return 0
	}
	return avail
}
