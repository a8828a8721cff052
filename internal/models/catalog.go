package models

import (
	"github.com/google/uuid"
)

// Catalog source types
const (
	SourceTypeSeller   = "seller"
	SourceTypeSupplier = "supplier"
)

// CatalogItem is one orderable inventory row as shown to buyers, with
// availability already computed and the source resolved to a label.
type CatalogItem struct {
	InventoryID       uuid.UUID  `json:"inventory_id"`
	Kind              string     `json:"kind"`
	ProductID         uuid.UUID  `json:"product_id"`
	ProductName       string     `json:"product_name"`
	ProductTypeName   *string    `json:"product_type_name"`
	SourceType        string     `json:"source_type"`
	SellerID          *uuid.UUID `json:"seller_id"`
	SupplierID        *uuid.UUID `json:"supplier_id"`
	SourceLabel       string     `json:"source_label"`
	AvailableQuantity int        `json:"available_quantity"`
	UnitPrice         float64    `json:"unit_price"`
	CanOrder          bool       `json:"can_order"`
}

// CatalogSourceRow is an inventory row joined with its product and source
// party, the raw material the catalog is computed from.
type CatalogSourceRow struct {
	Inventory        InventoryItem
	ProductName      string
	ProductTypeName  *string
	SellerName       *string
	SellerStatus     *string
	SellerHasRole    bool
	SupplierName     *string
	SupplierIsActive *bool
}

type CatalogFilter struct {
	ProductType  string
	ProductName  string
	SellerName   string
	SupplierName string
}

// Empty reports whether no filter field is set.
func (f CatalogFilter) Empty() bool {
	return f.ProductType == "" && f.ProductName == "" && f.SellerName == "" && f.SupplierName == ""
}
