// Package order owns the order aggregate: the status state machine, the
// history trail and the read paths over converted orders. Orders are only
// created by the cart conversion service and never physically deleted;
// cancellation is a status.
package order

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"akounamatata-system/internal/database/models"
	"akounamatata-system/internal/services/core"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type Requester struct {
	UserID int64
	Admin  bool
}

func (r Requester) owns(o *models.Order) bool {
	return o.ClientID == r.UserID
}

func (s *Service) Get(ctx context.Context, orderID int64, req Requester) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusLogs").
		Preload("Table").
		Preload("Client").
		First(&o, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("order %d not found", orderID)
		}
		log.Printf("order: failed to load order %d: %v", orderID, err)
		return nil, err
	}

	if !req.Admin && !req.owns(&o) {
		return nil, core.Forbiddenf("order %d does not belong to requester", orderID)
	}

	return &o, nil
}

type ListFilter struct {
	Status   string
	ClientID int64
	TableID  int64
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// List returns orders matching the filter, most recent first. Non-admin
// requesters are scoped to their own orders regardless of the filter.
func (s *Service) List(ctx context.Context, f ListFilter, req Requester) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	if !req.Admin {
		query = query.Where("client_id = ?", req.UserID)
	} else if f.ClientID != 0 {
		query = query.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.TableID != 0 {
		query = query.Where("table_id = ?", f.TableID)
	}
	if !f.From.IsZero() {
		query = query.Where("ordered_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		query = query.Where("ordered_at < ?", f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("order: failed to count orders: %v", err)
		return nil, 0, err
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Preload("Table").
		Order("ordered_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		log.Printf("order: failed to list orders: %v", err)
		return nil, 0, err
	}

	return orders, total, nil
}

// ChangeStatus advances the state machine. The update is a compare-and-swap
// on the current status so a stale transition (for example confirmed ->
// preparing arriving after a cancel) is rejected as a conflict instead of
// silently overwritten. Confirmation and delivery timestamps are stamped on
// first entry only.
func (s *Service) ChangeStatus(ctx context.Context, orderID int64, req Requester, newStatus, comment string) (*models.Order, error) {
	if !KnownStatus(newStatus) {
		return nil, core.Validationf("unknown status %q", newStatus)
	}

	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("order %d not found", orderID)
		}
		log.Printf("order: failed to load order %d: %v", orderID, err)
		return nil, err
	}

	if !req.Admin {
		if !req.owns(&o) {
			return nil, core.Forbiddenf("order %d does not belong to requester", orderID)
		}
		if IsTerminal(o.Status) {
			return nil, core.Conflictf("order %s is already %s", o.Number, o.Status)
		}
		if newStatus != StatusCancelled || !ClientMayCancel(o.Status) {
			return nil, core.Forbiddenf("client may only cancel a pending order")
		}
	} else {
		if newStatus != StatusCancelled && !CanTransition(o.Status, newStatus) {
			return nil, core.Conflictf("cannot move order %s from %s to %s", o.Number, o.Status, newStatus)
		}
		if IsTerminal(o.Status) {
			return nil, core.Conflictf("order %s is already %s", o.Number, o.Status)
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": now,
	}
	if newStatus == StatusConfirmed && o.ConfirmedAt == nil {
		updates["confirmed_at"] = now
	}
	if newStatus == StatusDelivered && o.DeliveredAt == nil {
		updates["delivered_at"] = now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, o.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return core.Conflictf("order %s changed concurrently", o.Number)
		}

		entry := models.OrderStatusLog{
			OrderID:   orderID,
			Status:    newStatus,
			Comment:   comment,
			CreatedAt: now,
		}
		if entry.Comment == "" {
			entry.Comment = "status change: " + o.Status + " -> " + newStatus
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if !errors.Is(err, core.ErrConflict) {
			log.Printf("order: failed to update status of order %d: %v", orderID, err)
		}
		return nil, err
	}

	return s.Get(ctx, orderID, req)
}

// Cancel is the destructive path shared by clients and admins; capability
// rules are enforced in ChangeStatus.
func (s *Service) Cancel(ctx context.Context, orderID int64, req Requester) (*models.Order, error) {
	comment := "cancelled by client"
	if req.Admin {
		comment = "cancelled by admin"
	}
	return s.ChangeStatus(ctx, orderID, req, StatusCancelled, comment)
}

// KitchenQueue lists confirmed and in-preparation orders, oldest first.
func (s *Service) KitchenQueue(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{StatusConfirmed, StatusPreparing}).
		Preload("Items").
		Preload("Table").
		Order("ordered_at ASC").
		Find(&orders).Error
	if err != nil {
		log.Printf("order: failed to load kitchen queue: %v", err)
		return nil, err
	}
	return orders, nil
}

type Stats struct {
	Period     string        `json:"period"`
	From       time.Time     `json:"from"`
	To         time.Time     `json:"to"`
	OrderCount int64         `json:"order_count"`
	Revenue    float64       `json:"revenue"`
	ByStatus   []StatusCount `json:"by_status"`
}

type StatusCount struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

// Stats aggregates order count and revenue for today, the past week or the
// current month.
func (s *Service) Stats(ctx context.Context, period string) (*Stats, error) {
	now := time.Now()
	var from, to time.Time
	switch period {
	case "week":
		from = now.AddDate(0, 0, -7)
		to = now
	case "month":
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	case "", "today":
		period = "today"
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 0, 1)
	default:
		return nil, core.Validationf("unknown period %q", period)
	}

	base := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("ordered_at >= ? AND ordered_at < ?", from, to)

	stats := Stats{Period: period, From: from, To: to}
	row := base.Session(&gorm.Session{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS revenue").
		Row()
	if err := row.Scan(&stats.OrderCount, &stats.Revenue); err != nil {
		log.Printf("order: failed to aggregate stats: %v", err)
		return nil, err
	}

	err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("status").
		Scan(&stats.ByStatus).Error
	if err != nil {
		log.Printf("order: failed to aggregate status stats: %v", err)
		return nil, err
	}

	return &stats, nil
}
