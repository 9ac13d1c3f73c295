// Package cart owns the per-(client, table) cart aggregate and its one-way
// conversion into an order. A client has at most one active cart per table;
// totals are derived from the items and recomputed on every mutation.
package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"akounamatata-system/internal/database/models"
	"akounamatata-system/internal/services/core"
)

type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	taxRate  float64
	currency string
}

func NewService(db *gorm.DB, redisClient *redis.Client, taxRate float64, currency string) *Service {
	return &Service{
		db:       db,
		redis:    redisClient,
		taxRate:  taxRate,
		currency: currency,
	}
}

// Get returns the client's active cart. A zero tableID matches any table.
func (s *Service) Get(ctx context.Context, clientID, tableID int64) (*models.Cart, error) {
	query := s.db.WithContext(ctx).Where("client_id = ? AND active = ?", clientID, true)
	if tableID != 0 {
		query = query.Where("table_id = ?", tableID)
	}

	var c models.Cart
	err := query.
		Preload("Items.Dish").
		Preload("Table").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("no active cart for client %d", clientID)
		}
		log.Printf("cart: failed to load cart for client %d: %v", clientID, err)
		return nil, err
	}

	return &c, nil
}

// AddItem puts a dish in the client's active cart for the table, creating
// the cart on first use. An existing active cart bound to a different table
// is deactivated first: a client orders at one table at a time. Adding the
// first item occupies the table if it is still free.
func (s *Service) AddItem(ctx context.Context, clientID, tableID, dishID int64, quantity int32, note string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, core.Validationf("quantity must be at least 1")
	}

	var table models.Table
	if err := s.db.WithContext(ctx).First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("table %d not found", tableID)
		}
		log.Printf("cart: failed to load table %d: %v", tableID, err)
		return nil, err
	}

	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("dish %d not found", dishID)
		}
		log.Printf("cart: failed to load dish %d: %v", dishID, err)
		return nil, err
	}
	if !dish.Available {
		return nil, core.Validationf("dish %q is not available", dish.Name)
	}

	err := s.withCartLock(ctx, clientID, tableID, func() error {
		c, err := s.activeCart(ctx, clientID, tableID)
		if err != nil {
			return err
		}

		line, existing := mergeLine(c.Items, dishID, quantity, dish.Price, note)
		if existing {
			err = s.db.WithContext(ctx).Model(&models.CartItem{}).
				Where("id = ?", line.ID).
				Updates(map[string]interface{}{"quantity": line.Quantity, "note": line.Note}).Error
		} else {
			line.CartID = c.ID
			line.CreatedAt = time.Now()
			err = s.db.WithContext(ctx).Create(&line).Error
		}
		if err != nil {
			log.Printf("cart: failed to upsert item in cart %d: %v", c.ID, err)
			return err
		}

		return s.recalcTotal(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	// First add claims a free table; losing this race to another occupant is
	// fine, the cart itself stays valid.
	s.occupyIfFree(ctx, tableID, clientID)

	return s.Get(ctx, clientID, tableID)
}

// UpdateItem sets the quantity (and optionally the note) of an existing
// line. Quantities below one are rejected, not clamped.
func (s *Service) UpdateItem(ctx context.Context, clientID, tableID, dishID int64, quantity int32, note *string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, core.Validationf("quantity must be at least 1")
	}

	err := s.withCartLock(ctx, clientID, tableID, func() error {
		c, err := s.Get(ctx, clientID, tableID)
		if err != nil {
			return err
		}

		var item *models.CartItem
		for i := range c.Items {
			if c.Items[i].DishID == dishID {
				item = &c.Items[i]
				break
			}
		}
		if item == nil {
			return core.NotFoundf("dish %d is not in the cart", dishID)
		}

		updates := map[string]interface{}{"quantity": quantity}
		if note != nil {
			updates["note"] = *note
		}
		if err := s.db.WithContext(ctx).Model(&models.CartItem{}).
			Where("id = ?", item.ID).
			Updates(updates).Error; err != nil {
			log.Printf("cart: failed to update item %d: %v", item.ID, err)
			return err
		}

		return s.recalcTotal(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, clientID, tableID)
}

// RemoveItem drops a dish from the cart. Removing an absent dish is not an
// error; the cart is simply returned unchanged.
func (s *Service) RemoveItem(ctx context.Context, clientID, tableID, dishID int64) (*models.Cart, error) {
	err := s.withCartLock(ctx, clientID, tableID, func() error {
		c, err := s.Get(ctx, clientID, tableID)
		if err != nil {
			return err
		}

		res := s.db.WithContext(ctx).
			Where("cart_id = ? AND dish_id = ?", c.ID, dishID).
			Delete(&models.CartItem{})
		if res.Error != nil {
			log.Printf("cart: failed to remove dish %d from cart %d: %v", dishID, c.ID, res.Error)
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		return s.recalcTotal(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, clientID, tableID)
}

// Clear empties the cart and resets its total.
func (s *Service) Clear(ctx context.Context, clientID, tableID int64) (*models.Cart, error) {
	err := s.withCartLock(ctx, clientID, tableID, func() error {
		c, err := s.Get(ctx, clientID, tableID)
		if err != nil {
			return err
		}

		if err := s.db.WithContext(ctx).
			Where("cart_id = ?", c.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			log.Printf("cart: failed to clear cart %d: %v", c.ID, err)
			return err
		}

		return s.db.WithContext(ctx).Model(&models.Cart{}).
			Where("id = ?", c.ID).
			Updates(map[string]interface{}{"total": 0, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, clientID, tableID)
}

type Summary struct {
	ItemsCount int           `json:"items_count"`
	Total      float64       `json:"total"`
	Currency   string        `json:"currency"`
	Table      *models.Table `json:"table"`
}

// Summary is the lightweight badge view: item count, total, bound table.
// A client without an active cart gets an empty summary, not an error.
func (s *Service) Summary(ctx context.Context, clientID int64) (*Summary, error) {
	c, err := s.Get(ctx, clientID, 0)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return &Summary{Currency: s.currency}, nil
		}
		return nil, err
	}

	count := 0
	for _, item := range c.Items {
		count += int(item.Quantity)
	}

	return &Summary{
		ItemsCount: count,
		Total:      c.Total,
		Currency:   c.Currency,
		Table:      c.Table,
	}, nil
}

// activeCart finds or lazily creates the active cart for the pair. Any
// active cart the client holds on a different table is deactivated, not
// deleted.
func (s *Service) activeCart(ctx context.Context, clientID, tableID int64) (*models.Cart, error) {
	var c models.Cart
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND table_id = ? AND active = ?", clientID, tableID, true).
		Preload("Items").
		First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("cart: failed to load active cart for client %d: %v", clientID, err)
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Cart{}).
		Where("client_id = ? AND active = ? AND table_id <> ?", clientID, true, tableID).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()}).Error; err != nil {
		log.Printf("cart: failed to deactivate stale carts for client %d: %v", clientID, err)
		return nil, err
	}

	c = models.Cart{
		ClientID: clientID,
		TableID:  tableID,
		Currency: s.currency,
		Active:   true,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		log.Printf("cart: failed to create cart for client %d: %v", clientID, err)
		return nil, err
	}
	return &c, nil
}

// recalcTotal recomputes the derived total from the current items,
// excluding those whose dish is no longer available.
func (s *Service) recalcTotal(ctx context.Context, cartID int64) error {
	var items []models.CartItem
	if err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Preload("Dish").
		Find(&items).Error; err != nil {
		log.Printf("cart: failed to load items of cart %d: %v", cartID, err)
		return err
	}

	return s.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total":      computeTotal(items),
			"updated_at": time.Now(),
		}).Error
}

// occupyIfFree claims the table for the client when nobody holds it. The
// guarded update makes the claim atomic; zero rows means someone else got
// there first, which is not an error here.
func (s *Service) occupyIfFree(ctx context.Context, tableID, clientID int64) {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND occupied = ?", tableID, false).
		Updates(map[string]interface{}{
			"occupied":          true,
			"occupied_at":       now,
			"current_client_id": clientID,
			"updated_at":        now,
		})
	if res.Error != nil {
		log.Printf("cart: failed to occupy table %d: %v", tableID, res.Error)
	}
}
