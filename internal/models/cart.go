package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CartLine is one entry in a buyer's cart. Quantity and UnitPrice are kept
// as strings so the cart tolerates partial edits, totals treat anything that
// does not parse as zero and submit validation rejects it explicitly.
type CartLine struct {
	InventoryID       uuid.UUID  `json:"inventory_id"`
	Kind              string     `json:"kind"`
	ProductID         uuid.UUID  `json:"product_id"`
	ProductName       string     `json:"product_name"`
	SourceType        string     `json:"source_type"`
	SellerID          *uuid.UUID `json:"seller_id"`
	SupplierID        *uuid.UUID `json:"supplier_id"`
	SourceLabel       string     `json:"source_label"`
	Quantity          string     `json:"quantity"`
	UnitPrice         string     `json:"unit_price"`
	AvailableQuantity int        `json:"available_quantity"`
}

// Key identifies a line by source and product, duplicate adds merge on it.
func (l *CartLine) Key() string {
	id := ""
	switch {
	case l.SellerID != nil:
		id = l.SellerID.String()
	case l.SupplierID != nil:
		id = l.SupplierID.String()
	}
	return l.SourceType + ":" + id + ":" + l.ProductID.String()
}

// LineTotal is quantity times unit price with non-numeric values read as zero.
func (l *CartLine) LineTotal() float64 {
	qty, err := strconv.ParseFloat(strings.TrimSpace(l.Quantity), 64)
	if err != nil {
		qty = 0
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(l.UnitPrice), 64)
	if err != nil {
		price = 0
	}
	return qty * price
}

type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total sums line totals.
func (c *Cart) Total() float64 {
	var total float64
	for i := range c.Lines {
		total += c.Lines[i].LineTotal()
	}
	return total
}

// ValidateForSubmit checks every line and returns the first violation.
// Quantities must be positive integers within availability and prices must
// be positive numbers.
func (c *Cart) ValidateForSubmit() error {
	if len(c.Lines) == 0 {
		return fmt.Errorf("cart is empty")
	}
	for i := range c.Lines {
		l := &c.Lines[i]
		qty, err := strconv.Atoi(strings.TrimSpace(l.Quantity))
		if err != nil || qty <= 0 {
			return fmt.Errorf("quantity for %s must be a positive whole number", l.ProductName)
		}
		if qty > l.AvailableQuantity {
			return fmt.Errorf("quantity for %s exceeds available stock (%d)", l.ProductName, l.AvailableQuantity)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(l.UnitPrice), 64)
		if err != nil || price <= 0 {
			return fmt.Errorf("unit price for %s must be a positive number", l.ProductName)
		}
	}
	return nil
}
