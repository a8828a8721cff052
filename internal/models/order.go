package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses
const (
	OrderStatusCreated   = "created"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPacked    = "packed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusCreated, OrderStatusConfirmed, OrderStatusPacked,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// TerminalOrderStatus reports whether s permits no further transitions.
func TerminalOrderStatus(s string) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderGroup is one checkout, fanned out into per-source orders.
type OrderGroup struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GroupNumber string    `json:"group_number" db:"group_number"`
	BuyerID     uuid.UUID `json:"buyer_id" db:"buyer_id"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	Currency    string    `json:"currency" db:"currency"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// OrderGroupDetail is a checkout with its per-source orders expanded.
type OrderGroupDetail struct {
	OrderGroup
	Orders []*OrderRow `json:"orders"`
}

type Order struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	OrderGroupID uuid.UUID  `json:"order_group_id" db:"order_group_id"`
	OrderNumber  string     `json:"order_number" db:"order_number"`
	BuyerID      uuid.UUID  `json:"buyer_id" db:"buyer_id"`
	SourceType   string     `json:"source_type" db:"source_type"`
	SellerID     *uuid.UUID `json:"seller_id" db:"seller_id"`
	SupplierID   *uuid.UUID `json:"supplier_id" db:"supplier_id"`
	Status       string     `json:"status" db:"status"`
	TotalAmount  float64    `json:"total_amount" db:"total_amount"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	InventoryID uuid.UUID `json:"inventory_id" db:"inventory_id"`
	Kind        string    `json:"kind" db:"kind"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	SKU         string    `json:"sku" db:"sku"`
	Name        string    `json:"name" db:"name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
}

// OrderRow joins items and a display label for the source party.
type OrderRow struct {
	Order
	SourceLabel string      `json:"source_label"`
	Items       []OrderItem `json:"items"`
}

// CheckoutItem is one submitted checkout line before validation.
type CheckoutItem struct {
	InventoryID uuid.UUID  `json:"inventory_id"`
	Kind        string     `json:"kind"`
	ProductID   uuid.UUID  `json:"product_id"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	SellerID    *uuid.UUID `json:"seller_id"`
	SupplierID  *uuid.UUID `json:"supplier_id"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
}

type CheckoutRequest struct {
	Currency string         `json:"currency"`
	Items    []CheckoutItem `json:"items"`
}

type CheckoutResult struct {
	OrderGroupID uuid.UUID  `json:"order_group_id"`
	GroupNumber  string     `json:"group_number"`
	TotalAmount  float64    `json:"total_amount"`
	Currency     string     `json:"currency"`
	Orders       []OrderRow `json:"orders"`
}
