package models

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SupplierName string    `json:"supplier_name" db:"supplier_name"`
	ContactEmail *string   `json:"contact_email" db:"contact_email"`
	ContactPhone *string   `json:"contact_phone" db:"contact_phone"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SupplierProduct links a supplier to a product it can be procured from.
// SupplierType distinguishes farm-direct links from aggregator links and is
// carried into inventory rows created by push-to-inventory.
type SupplierProduct struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SupplierID   uuid.UUID `json:"supplier_id" db:"supplier_id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	SupplierType string    `json:"supplier_type" db:"supplier_type"`
	UnitPrice    *float64  `json:"unit_price" db:"unit_price"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SupplierProductRow joins supplier and product names for list responses.
type SupplierProductRow struct {
	SupplierProduct
	SupplierName string `json:"supplier_name"`
	ProductName  string `json:"product_name"`
}
