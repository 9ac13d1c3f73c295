// Package catalog is the pricing and availability truth consulted by the
// cart and the conversion service, plus the admin CRUD behind it. Dish
// reads go through a redis read-through cache invalidated on every write.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"akounamatata-system/internal/database/models"
	"akounamatata-system/internal/services/core"
)

const (
	dishCachePrefix    = "catalog:dish:"
	categoriesCacheKey = "catalog:categories"
	cacheTTLShort      = 5 * time.Minute
	cacheTTLMedium     = 30 * time.Minute
)

type Service struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewService(db *gorm.DB, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

func (s *Service) invalidateCaches(ctx context.Context, dishIDs ...int64) {
	_ = s.redis.Del(ctx, categoriesCacheKey)
	for _, id := range dishIDs {
		_ = s.redis.Del(ctx, fmt.Sprintf("%s%d", dishCachePrefix, id))
	}
}

// GetDish resolves a dish, serving from cache when possible.
func (s *Service) GetDish(ctx context.Context, dishID int64) (*models.Dish, error) {
	cacheKey := fmt.Sprintf("%s%d", dishCachePrefix, dishID)
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var d models.Dish
		if json.Unmarshal([]byte(cached), &d) == nil {
			return &d, nil
		}
	}

	var d models.Dish
	err := s.db.WithContext(ctx).Preload("Category").First(&d, dishID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("dish %d not found", dishID)
		}
		log.Printf("catalog: failed to load dish %d: %v", dishID, err)
		return nil, err
	}

	if data, err := json.Marshal(d); err == nil {
		_ = s.redis.Set(ctx, cacheKey, data, cacheTTLMedium)
	}

	return &d, nil
}

// GetDishesByIDs bulk-resolves dish references, used to validate menu
// compositions. Missing ids are an error, not silently dropped.
func (s *Service) GetDishesByIDs(ctx context.Context, ids []int64) ([]models.Dish, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var dishes []models.Dish
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		log.Printf("catalog: failed to load dishes %v: %v", ids, err)
		return nil, err
	}

	if len(dishes) != len(ids) {
		found := make(map[int64]bool, len(dishes))
		for _, d := range dishes {
			found[d.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, core.NotFoundf("dish %d not found", id)
			}
		}
	}

	return dishes, nil
}

type DishFilter struct {
	CategoryID int64
	Available  *bool
	Search     string
	Page       int
	PageSize   int
}

func (s *Service) ListDishes(ctx context.Context, f DishFilter) ([]models.Dish, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Dish{}).Preload("Category")

	if f.CategoryID != 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.Available != nil {
		query = query.Where("available = ?", *f.Available)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("catalog: failed to count dishes: %v", err)
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

	var dishes []models.Dish
	err := query.
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&dishes).Error
	if err != nil {
		log.Printf("catalog: failed to list dishes: %v", err)
		return nil, 0, err
	}

	return dishes, total, nil
}

type DishInput struct {
	Name            string
	Description     string
	Price           *float64
	CategoryID      *int64
	ImageURL        *string
	Available       *bool
	PrepTimeMinutes int32
}

func (s *Service) CreateDish(ctx context.Context, in DishInput) (*models.Dish, error) {
	if in.Name == "" {
		return nil, core.Validationf("dish name is required")
	}
	if in.Price == nil {
		return nil, core.Validationf("price is required")
	}
	if *in.Price < 0 {
		return nil, core.Validationf("price must not be negative")
	}
	if in.CategoryID != nil {
		if _, err := s.getCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	d := models.Dish{
		Name:            in.Name,
		Description:     in.Description,
		Price:           *in.Price,
		CategoryID:      in.CategoryID,
		ImageURL:        in.ImageURL,
		Available:       true,
		PrepTimeMinutes: in.PrepTimeMinutes,
	}
	if in.Available != nil {
		d.Available = *in.Available
	}

	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		log.Printf("catalog: failed to create dish %q: %v", in.Name, err)
		return nil, err
	}

	s.invalidateCaches(ctx, d.ID)
	return &d, nil
}

func (s *Service) UpdateDish(ctx context.Context, dishID int64, in DishInput) (*models.Dish, error) {
	var d models.Dish
	if err := s.db.WithContext(ctx).First(&d, dishID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("dish %d not found", dishID)
		}
		log.Printf("catalog: failed to load dish %d: %v", dishID, err)
		return nil, err
	}

	if in.Name != "" {
		d.Name = in.Name
	}
	if in.Description != "" {
		d.Description = in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, core.Validationf("price must not be negative")
		}
		d.Price = *in.Price
	}
	if in.CategoryID != nil {
		if _, err := s.getCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		d.CategoryID = in.CategoryID
	}
	if in.ImageURL != nil {
		d.ImageURL = in.ImageURL
	}
	if in.Available != nil {
		d.Available = *in.Available
	}
	if in.PrepTimeMinutes > 0 {
		d.PrepTimeMinutes = in.PrepTimeMinutes
	}

	if err := s.db.WithContext(ctx).Save(&d).Error; err != nil {
		log.Printf("catalog: failed to update dish %d: %v", dishID, err)
		return nil, err
	}

	s.invalidateCaches(ctx, dishID)
	return &d, nil
}

// SetAvailability flips the flag the cart totals depend on.
func (s *Service) SetAvailability(ctx context.Context, dishID int64, available bool) (*models.Dish, error) {
	res := s.db.WithContext(ctx).Model(&models.Dish{}).
		Where("id = ?", dishID).
		Updates(map[string]interface{}{"available": available, "updated_at": time.Now()})
	if res.Error != nil {
		log.Printf("catalog: failed to set availability of dish %d: %v", dishID, res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, core.NotFoundf("dish %d not found", dishID)
	}

	s.invalidateCaches(ctx, dishID)
	return s.GetDish(ctx, dishID)
}

func (s *Service) DeleteDish(ctx context.Context, dishID int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Dish{}, dishID)
	if res.Error != nil {
		// Cart and order lines reference dishes; deactivated carts keep
		// their lines, so a dish that was ever ordered stays referenced.
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return core.Conflictf("dish %d is still referenced by carts or orders, mark it unavailable instead", dishID)
		}
		log.Printf("catalog: failed to delete dish %d: %v", dishID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.NotFoundf("dish %d not found", dishID)
	}

	s.invalidateCaches(ctx, dishID)
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	if cached, err := s.redis.Get(ctx, categoriesCacheKey).Result(); err == nil {
		var categories []models.Category
		if json.Unmarshal([]byte(cached), &categories) == nil {
			return categories, nil
		}
	}

	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		log.Printf("catalog: failed to list categories: %v", err)
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		_ = s.redis.Set(ctx, categoriesCacheKey, data, cacheTTLShort)
	}

	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	if name == "" {
		return nil, core.Validationf("category name is required")
	}

	var existing models.Category
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, core.Conflictf("category %q already exists", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("catalog: failed to check category %q: %v", name, err)
		return nil, err
	}

	c := models.Category{Name: name, Description: description, IsActive: true}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		log.Printf("catalog: failed to create category %q: %v", name, err)
		return nil, err
	}

	s.invalidateCaches(ctx)
	return &c, nil
}

func (s *Service) getCategory(ctx context.Context, categoryID int64) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).First(&c, categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("category %d not found", categoryID)
		}
		log.Printf("catalog: failed to load category %d: %v", categoryID, err)
		return nil, err
	}
	return &c, nil
}

// CreateMenu composes a menu of the day from existing dishes; every dish
// reference is validated in bulk first.
func (s *Service) CreateMenu(ctx context.Context, title string, date time.Time, price *float64, dishIDs []int64) (*models.MenuOfTheDay, error) {
	if title == "" {
		return nil, core.Validationf("menu title is required")
	}
	if len(dishIDs) == 0 {
		return nil, core.Validationf("a menu needs at least one dish")
	}

	dishes, err := s.GetDishesByIDs(ctx, dishIDs)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	m := models.MenuOfTheDay{
		Title:    title,
		Date:     day,
		Price:    price,
		IsActive: true,
		Dishes:   dishes,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		log.Printf("catalog: failed to create menu %q: %v", title, err)
		return nil, err
	}

	return &m, nil
}

// TodayMenu returns the active menu for the current day, if any.
func (s *Service) TodayMenu(ctx context.Context) (*models.MenuOfTheDay, error) {
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var m models.MenuOfTheDay
	err := s.db.WithContext(ctx).
		Where("date = ? AND is_active = ?", day, true).
		Preload("Dishes").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("no menu for today")
		}
		log.Printf("catalog: failed to load today's menu: %v", err)
		return nil, err
	}

	return &m, nil
}
