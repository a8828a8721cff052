package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductType struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
}

type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   *string    `json:"description" db:"description"`
	ProductTypeID *uuid.UUID `json:"product_type_id" db:"product_type_id"`
	UnitOfMeasure *string    `json:"unit_of_measure" db:"unit_of_measure"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductRow joins the product type name in for list responses.
type ProductRow struct {
	Product
	ProductTypeName *string `json:"product_type_name"`
}
