package cart

import (
	"github.com/shopspring/decimal"

	"akounamatata-system/internal/database/models"
)

// computeTotal sums quantity × unit price over items whose dish is currently
// available. Unavailable items stay in the cart but never count toward the
// total, so the client keeps their selection without being able to pay for
// something no longer orderable. Items without a loaded dish are treated as
// unavailable.
func computeTotal(items []models.CartItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		if item.Dish == nil || !item.Dish.Available {
			continue
		}
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2).InexactFloat64()
}

// mergeLine returns the line to persist after adding quantity of a dish. If
// the dish is already in the cart the quantities sum on the existing line and
// the note is overwritten only when a non-empty one is supplied; otherwise a
// fresh line snapshots the unit price. The boolean reports whether the line
// already existed.
func mergeLine(items []models.CartItem, dishID int64, quantity int32, unitPrice float64, note string) (models.CartItem, bool) {
	for _, item := range items {
		if item.DishID == dishID {
			item.Quantity += quantity
			if note != "" {
				item.Note = note
			}
			return item, true
		}
	}

	return models.CartItem{
		DishID:    dishID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Note:      note,
	}, false
}
