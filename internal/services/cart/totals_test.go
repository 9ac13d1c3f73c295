package cart

import (
	"testing"

	"akounamatata-system/internal/database/models"
)

func dish(available bool) *models.Dish {
	return &models.Dish{ID: 1, Name: "Poulet DG", Price: 2500, Available: available}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []models.CartItem
		want  float64
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  0,
		},
		{
			name: "all available",
			items: []models.CartItem{
				{DishID: 1, Quantity: 2, UnitPrice: 2500, Dish: dish(true)},
				{DishID: 2, Quantity: 1, UnitPrice: 500, Dish: &models.Dish{ID: 2, Available: true}},
			},
			want: 5500,
		},
		{
			name: "unavailable dish excluded from total",
			items: []models.CartItem{
				{DishID: 1, Quantity: 2, UnitPrice: 2500, Dish: dish(true)},
				{DishID: 2, Quantity: 3, UnitPrice: 1000, Dish: &models.Dish{ID: 2, Available: false}},
			},
			want: 5000,
		},
		{
			name: "item without loaded dish treated as unavailable",
			items: []models.CartItem{
				{DishID: 1, Quantity: 1, UnitPrice: 2500, Dish: nil},
			},
			want: 0,
		},
		{
			name: "fractional prices rounded to two decimals",
			items: []models.CartItem{
				{DishID: 1, Quantity: 3, UnitPrice: 0.1, Dish: dish(true)},
			},
			want: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTotal(tt.items)
			if got != tt.want {
				t.Errorf("computeTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeLine(t *testing.T) {
	existing := []models.CartItem{
		{ID: 10, CartID: 1, DishID: 1, Quantity: 2, UnitPrice: 2500, Note: "sans piment"},
	}

	t.Run("existing line sums quantities", func(t *testing.T) {
		line, found := mergeLine(existing, 1, 3, 2600, "")
		if !found {
			t.Fatal("expected existing line to be found")
		}
		if line.Quantity != 5 {
			t.Errorf("expected quantity 5, got %d", line.Quantity)
		}
		if line.UnitPrice != 2500 {
			t.Errorf("price snapshot must not change on merge, got %v", line.UnitPrice)
		}
	})

	t.Run("empty note keeps previous note", func(t *testing.T) {
		line, _ := mergeLine(existing, 1, 1, 2500, "")
		if line.Note != "sans piment" {
			t.Errorf("expected note preserved, got %q", line.Note)
		}
	})

	t.Run("non-empty note overwrites", func(t *testing.T) {
		line, _ := mergeLine(existing, 1, 1, 2500, "bien cuit")
		if line.Note != "bien cuit" {
			t.Errorf("expected note replaced, got %q", line.Note)
		}
	})

	t.Run("new dish creates fresh line", func(t *testing.T) {
		line, found := mergeLine(existing, 2, 1, 500, "")
		if found {
			t.Fatal("expected a new line")
		}
		if line.DishID != 2 || line.Quantity != 1 || line.UnitPrice != 500 {
			t.Errorf("unexpected new line: %+v", line)
		}
	})
}
