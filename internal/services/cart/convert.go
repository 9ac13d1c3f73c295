package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"akounamatata-system/internal/database/models"
	"akounamatata-system/internal/services/core"
	"akounamatata-system/internal/services/order"
)

// ConvertToOrder turns the active cart into an immutable pending order. The
// order row, the snapshotted items and the cart deactivation commit as one
// transaction; the client history link is appended afterwards, best effort,
// because a missing history entry is a lesser defect than a lost order.
//
// Item names and prices are copied at this instant and never re-read from
// the catalog. Availability is not re-checked here: filtering unavailable
// dishes out of the payable amount is the cart's concern, and by conversion
// time the items purchased are exactly what the cart held.
func (s *Service) ConvertToOrder(ctx context.Context, clientID, tableID int64, mode, comment string) (*models.Order, error) {
	if mode == "" {
		mode = order.ModeDineIn
	}
	if !order.KnownMode(mode) {
		return nil, core.Validationf("unknown order mode %q", mode)
	}

	var created models.Order

	err := s.withCartLock(ctx, clientID, tableID, func() error {
		c, err := s.Get(ctx, clientID, tableID)
		if err != nil {
			return err
		}
		if len(c.Items) == 0 {
			return core.Validationf("cart is empty")
		}

		now := time.Now()
		items := make([]models.OrderItem, 0, len(c.Items))
		for _, item := range c.Items {
			name := ""
			if item.Dish != nil {
				name = item.Dish.Name
			}
			items = append(items, models.OrderItem{
				DishID:    item.DishID,
				Name:      name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Note:      item.Note,
				CreatedAt: now,
			})
		}

		subtotal, tax, total := order.ComputeTotals(items, s.taxRate)

		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := order.NextNumber(tx)
			if err != nil {
				return err
			}

			created = models.Order{
				Number:    number,
				ClientID:  clientID,
				TableID:   tableID,
				Subtotal:  subtotal,
				Tax:       tax,
				Total:     total,
				Currency:  c.Currency,
				Status:    order.StatusPending,
				Mode:      mode,
				Comment:   comment,
				OrderedAt: now,
			}
			if err := tx.Create(&created).Error; err != nil {
				// Two conversions racing past the same count produce the same
				// number; the unique index rejects the loser.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return core.Conflictf("order number %s was taken concurrently, retry", number)
				}
				return err
			}

			for i := range items {
				items[i].OrderID = created.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}

			res := tx.Model(&models.Cart{}).
				Where("id = ? AND active = ?", c.ID, true).
				Updates(map[string]interface{}{"active": false, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return core.Conflictf("cart was already converted")
			}
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, core.ErrValidation) && !errors.Is(err, core.ErrNotFound) && !errors.Is(err, core.ErrConflict) {
			log.Printf("cart: conversion failed for client %d table %d: %v", clientID, tableID, err)
		}
		return nil, err
	}

	// Lost history link: log and still report the order as created, never a
	// user-facing error.
	history := models.OrderHistory{UserID: clientID, OrderID: created.ID, CreatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
		log.Printf("cart: warning: failed to append order %d to history of client %d: %v", created.ID, clientID, err)
	}

	var full models.Order
	err = s.db.WithContext(ctx).
		Preload("Items").
		Preload("Table").
		Preload("Client").
		First(&full, created.ID).Error
	if err != nil {
		log.Printf("cart: failed to reload order %d: %v", created.ID, err)
		return &created, nil
	}

	return &full, nil
}
