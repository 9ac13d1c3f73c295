package order

import (
	"testing"

	"akounamatata-system/internal/database/models"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.OrderItem
		taxRate      float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name: "two dishes at standard rate",
			items: []models.OrderItem{
				{Name: "Poulet DG", Quantity: 2, UnitPrice: 2500},
				{Name: "Jus de bissap", Quantity: 1, UnitPrice: 500},
			},
			taxRate:      0.18,
			wantSubtotal: 5500,
			wantTax:      990,
			wantTotal:    6490,
		},
		{
			name:         "no items",
			items:        nil,
			taxRate:      0.18,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name: "zero tax rate",
			items: []models.OrderItem{
				{Name: "Ndolé", Quantity: 1, UnitPrice: 3000},
			},
			taxRate:      0,
			wantSubtotal: 3000,
			wantTax:      0,
			wantTotal:    3000,
		},
		{
			name: "tax rounded to two decimals",
			items: []models.OrderItem{
				{Name: "Beignet", Quantity: 1, UnitPrice: 333.33},
			},
			taxRate:      0.18,
			wantSubtotal: 333.33,
			wantTax:      60,
			wantTotal:    393.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, tax, total := ComputeTotals(tt.items, tt.taxRate)
			if subtotal != tt.wantSubtotal {
				t.Errorf("subtotal = %v, want %v", subtotal, tt.wantSubtotal)
			}
			if tax != tt.wantTax {
				t.Errorf("tax = %v, want %v", tax, tt.wantTax)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %v, want %v", total, tt.wantTotal)
			}
		})
	}
}
