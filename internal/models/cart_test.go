package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func cartLine(name, qty, price string, available int) CartLine {
	sellerID := uuid.New()
	return CartLine{
		InventoryID:       uuid.New(),
		Kind:              InventoryKindRegular,
		ProductID:         uuid.New(),
		ProductName:       name,
		SourceType:        SourceTypeSeller,
		SellerID:          &sellerID,
		Quantity:          qty,
		UnitPrice:         price,
		AvailableQuantity: available,
	}
}

func TestCartTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []CartLine
		want  float64
	}{
		{
			name: "sums parsed lines",
			lines: []CartLine{
				cartLine("Maize", "3", "10", 100),
				cartLine("Beans", "2", "5.5", 100),
			},
			want: 41,
		},
		{
			name: "unparseable values count as zero",
			lines: []CartLine{
				cartLine("Maize", "3", "10", 100),
				cartLine("Beans", "abc", "5.5", 100),
				cartLine("Rice", "2", "", 100),
			},
			want: 30,
		},
		{
			name:  "empty cart",
			lines: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &Cart{Lines: tt.lines}
			assert.Equal(t, tt.want, cart.Total())
		})
	}
}

func TestCartValidateForSubmit(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		cart := &Cart{}
		assert.EqualError(t, cart.ValidateForSubmit(), "cart is empty")
	})

	t.Run("valid cart passes", func(t *testing.T) {
		cart := &Cart{Lines: []CartLine{cartLine("Maize", "3", "10", 100)}}
		assert.NoError(t, cart.ValidateForSubmit())
	})

	t.Run("fractional quantity rejected", func(t *testing.T) {
		cart := &Cart{Lines: []CartLine{cartLine("Maize", "2.5", "10", 100)}}
		assert.EqualError(t, cart.ValidateForSubmit(), "quantity for Maize must be a positive whole number")
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		cart := &Cart{Lines: []CartLine{cartLine("Maize", "0", "10", 100)}}
		assert.EqualError(t, cart.ValidateForSubmit(), "quantity for Maize must be a positive whole number")
	})

	t.Run("quantity above availability rejected", func(t *testing.T) {
		cart := &Cart{Lines: []CartLine{cartLine("Maize", "11", "10", 10)}}
		assert.EqualError(t, cart.ValidateForSubmit(), "quantity for Maize exceeds available stock (10)")
	})

	t.Run("non numeric price rejected", func(t *testing.T) {
		cart := &Cart{Lines: []CartLine{cartLine("Maize", "3", "abc", 100)}}
		assert.EqualError(t, cart.ValidateForSubmit(), "unit price for Maize must be a positive number")
	})

	t.Run("first invalid line reported", func(t *testing.T) {
		cart := &Cart{Lines: []CartLine{
			cartLine("Maize", "3", "10", 100),
			cartLine("Beans", "-1", "5", 100),
			cartLine("Rice", "x", "5", 100),
		}}
		assert.EqualError(t, cart.ValidateForSubmit(), "quantity for Beans must be a positive whole number")
	})
}

func TestCartLineKey(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()

	a := CartLine{SourceType: SourceTypeSeller, SellerID: &sellerID, ProductID: productID}
	b := CartLine{SourceType: SourceTypeSeller, SellerID: &sellerID, ProductID: productID, InventoryID: uuid.New()}
	assert.Equal(t, a.Key(), b.Key())

	supplierID := uuid.New()
	c := CartLine{SourceType: SourceTypeSupplier, SupplierID: &supplierID, ProductID: productID}
	assert.NotEqual(t, a.Key(), c.Key())
}
