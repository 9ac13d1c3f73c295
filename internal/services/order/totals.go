package order

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"akounamatata-system/internal/database/models"
)

// ComputeTotals derives subtotal, tax and total from snapshotted items. No
// availability filtering happens here: by conversion time the items being
// purchased are exactly what was in the cart.
func ComputeTotals(items []models.OrderItem, taxRate float64) (subtotal, tax, total float64) {
	sub := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sub = sub.Add(line)
	}

	t := sub.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	return sub.Round(2).InexactFloat64(), t.InexactFloat64(), sub.Add(t).Round(2).InexactFloat64()
}

// NextNumber produces the next zero-padded order number. Run it inside the
// conversion transaction; the unique index on number backstops a raced
// duplicate.
func NextNumber(tx *gorm.DB) (string, error) {
	var count int64
	if err := tx.Model(&models.Order{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("CMD%06d", count+1), nil
}
