// Package table guards the occupancy state of physical tables and owns
// their QR tokens. Occupancy transitions are single guarded updates so that
// two clients racing for the same free table cannot both win.
package table

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"akounamatata-system/internal/database/models"
	"akounamatata-system/internal/qrcode"
	"akounamatata-system/internal/services/core"
)

type Service struct {
	db    *gorm.DB
	codec *qrcode.Codec
}

func NewService(db *gorm.DB, codec *qrcode.Codec) *Service {
	return &Service{db: db, codec: codec}
}

func (s *Service) Get(ctx context.Context, tableID int64) (*models.Table, error) {
	var t models.Table
	err := s.db.WithContext(ctx).Preload("CurrentClient").First(&t, tableID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("table %d not found", tableID)
		}
		log.Printf("table: failed to load table %d: %v", tableID, err)
		return nil, err
	}
	return &t, nil
}

type ListFilter struct {
	Occupied *bool
	Page     int
	PageSize int
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Table, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Table{})
	if f.Occupied != nil {
		query = query.Where("occupied = ?", *f.Occupied)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("table: failed to count tables: %v", err)
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

	var tables []models.Table
	err := query.
		Preload("CurrentClient").
		Order("number ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tables).Error
	if err != nil {
		log.Printf("table: failed to list tables: %v", err)
		return nil, 0, err
	}

	return tables, total, nil
}

// Available lists free tables, number and capacity only.
func (s *Service) Available(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).
		Select("id", "number", "capacity").
		Where("occupied = ?", false).
		Order("number ASC").
		Find(&tables).Error
	if err != nil {
		log.Printf("table: failed to list available tables: %v", err)
		return nil, err
	}
	return tables, nil
}

// Create adds a table and generates its QR token. Numbers are unique within
// the restaurant; capacity is bounded 1-20.
func (s *Service) Create(ctx context.Context, number string, capacity int32, restaurantID string) (*models.Table, string, error) {
	if number == "" {
		return nil, "", core.Validationf("table number is required")
	}
	if capacity < 1 || capacity > 20 {
		return nil, "", core.Validationf("capacity must be between 1 and 20")
	}
	if restaurantID == "" {
		restaurantID = "akounamatata_main"
	}

	var existing models.Table
	err := s.db.WithContext(ctx).
		Where("number = ? AND restaurant_id = ?", number, restaurantID).
		First(&existing).Error
	if err == nil {
		return nil, "", core.Conflictf("table %s already exists", number)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("table: failed to check table number %s: %v", number, err)
		return nil, "", err
	}

	t := models.Table{
		Number:       number,
		Capacity:     capacity,
		RestaurantID: restaurantID,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		log.Printf("table: failed to create table %s: %v", number, err)
		return nil, "", err
	}

	image, err := s.persistToken(ctx, &t)
	if err != nil {
		return nil, "", err
	}

	return &t, image, nil
}

// Update changes number and/or capacity. A renumbered table gets a fresh
// token since the number is embedded in the payload.
func (s *Service) Update(ctx context.Context, tableID int64, number *string, capacity *int32) (*models.Table, error) {
	t, err := s.Get(ctx, tableID)
	if err != nil {
		return nil, err
	}

	if capacity != nil {
		if *capacity < 1 || *capacity > 20 {
			return nil, core.Validationf("capacity must be between 1 and 20")
		}
		t.Capacity = *capacity
	}

	renumbered := false
	if number != nil && *number != t.Number {
		if *number == "" {
			return nil, core.Validationf("table number is required")
		}
		var existing models.Table
		err := s.db.WithContext(ctx).
			Where("number = ? AND restaurant_id = ? AND id <> ?", *number, t.RestaurantID, tableID).
			First(&existing).Error
		if err == nil {
			return nil, core.Conflictf("table %s already exists", *number)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("table: failed to check table number %s: %v", *number, err)
			return nil, err
		}
		t.Number = *number
		renumbered = true
	}

	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		log.Printf("table: failed to update table %d: %v", tableID, err)
		return nil, err
	}

	if renumbered {
		if _, err := s.persistToken(ctx, t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Delete removes a table. Occupied tables cannot be deleted.
func (s *Service) Delete(ctx context.Context, tableID int64) error {
	t, err := s.Get(ctx, tableID)
	if err != nil {
		return err
	}
	if t.Occupied {
		return core.Conflictf("table %s is occupied", t.Number)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Table{}, tableID).Error; err != nil {
		log.Printf("table: failed to delete table %d: %v", tableID, err)
		return err
	}
	return nil
}

// Occupy claims a free table for a client. The guarded update is the
// compare-and-swap: zero affected rows on an existing table means it was
// already occupied.
func (s *Service) Occupy(ctx context.Context, tableID, clientID int64) (*models.Table, error) {
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
		log.Printf("table: failed to occupy table %d: %v", tableID, res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		t, err := s.Get(ctx, tableID)
		if err != nil {
			return nil, err
		}
		return nil, core.Conflictf("table %s is already occupied", t.Number)
	}

	return s.Get(ctx, tableID)
}

// Free releases an occupied table, clearing the whole occupancy triple.
func (s *Service) Free(ctx context.Context, tableID int64) (*models.Table, error) {
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND occupied = ?", tableID, true).
		Updates(map[string]interface{}{
			"occupied":          false,
			"occupied_at":       nil,
			"current_client_id": nil,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		log.Printf("table: failed to free table %d: %v", tableID, res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		t, err := s.Get(ctx, tableID)
		if err != nil {
			return nil, err
		}
		return nil, core.Conflictf("table %s is already free", t.Number)
	}

	return s.Get(ctx, tableID)
}

// QRCode returns the table's token and its rendered image, generating and
// persisting the token on first request. An existing token is rendered as
// stored so the image always matches the string.
func (s *Service) QRCode(ctx context.Context, tableID int64) (string, string, error) {
	t, err := s.Get(ctx, tableID)
	if err != nil {
		return "", "", err
	}

	if t.QRCode == nil {
		image, err := s.persistToken(ctx, t)
		if err != nil {
			return "", "", err
		}
		return *t.QRCode, image, nil
	}

	image, err := s.codec.Render(*t.QRCode)
	if err != nil {
		log.Printf("table: failed to render QR for table %d: %v", tableID, err)
		return "", "", err
	}
	return *t.QRCode, image, nil
}

// ValidateQR checks a scanned token and resolves it against storage. The
// codec only answers the syntactic and temporal part; a well-formed token
// naming a vanished table is still rejected.
func (s *Service) ValidateQR(ctx context.Context, token string) (*models.Table, error) {
	payload, reason := s.codec.Validate(token)
	if reason != "" {
		return nil, core.Validationf("%s", reason)
	}

	t, err := s.Get(ctx, payload.TableID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) persistToken(ctx context.Context, t *models.Table) (string, error) {
	token, image, err := s.codec.Encode(t.ID, t.Number)
	if err != nil {
		log.Printf("table: failed to generate QR for table %d: %v", t.ID, err)
		return "", err
	}

	t.QRCode = &token
	if err := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ?", t.ID).
		Update("qr_code", token).Error; err != nil {
		log.Printf("table: failed to persist QR for table %d: %v", t.ID, err)
		return "", err
	}
	return image, nil
}
