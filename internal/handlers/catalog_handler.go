package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"akounamatata-system/internal/services/catalog"
)

type CatalogHTTPHandler struct {
	catalogService *catalog.Service
}

func NewCatalogHTTPHandler(catalogService *catalog.Service) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{catalogService: catalogService}
}

type CreateDishRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description,omitempty"`
	Price           *float64 `json:"price" binding:"required,min=0"`
	CategoryID      *int64   `json:"category_id,omitempty"`
	ImageURL        *string  `json:"image_url,omitempty"`
	Available       *bool    `json:"available,omitempty"`
	PrepTimeMinutes int32    `json:"prep_time_minutes,omitempty"`
}

type UpdateDishRequest struct {
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	CategoryID      *int64   `json:"category_id,omitempty"`
	ImageURL        *string  `json:"image_url,omitempty"`
	Available       *bool    `json:"available,omitempty"`
	PrepTimeMinutes int32    `json:"prep_time_minutes,omitempty"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

type CreateMenuRequest struct {
	Title   string   `json:"title" binding:"required"`
	Date    string   `json:"date,omitempty"`
	Price   *float64 `json:"price,omitempty"`
	DishIDs []int64  `json:"dish_ids" binding:"required,min=1"`
}

type ListDishesQuery struct {
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=10"`
	CategoryID int64  `form:"category_id,omitempty"`
	Available  *bool  `form:"available,omitempty"`
	Search     string `form:"search,omitempty"`
}

func (h *CatalogHTTPHandler) GetDish(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid dish ID"))
		return
	}

	result, err := h.catalogService.GetDish(c.Request.Context(), dishID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Dish retrieved successfully", result))
}

func (h *CatalogHTTPHandler) ListDishes(c *gin.Context) {
	var q ListDishesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	results, total, err := h.catalogService.ListDishes(c.Request.Context(), catalog.DishFilter{
		CategoryID: q.CategoryID,
		Available:  q.Available,
		Search:     q.Search,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	meta := PaginationMeta{Page: q.Page, PageSize: q.PageSize, Total: total}
	c.JSON(http.StatusOK, successWithMetaResponse("Dishes retrieved successfully", results, meta))
}

func (h *CatalogHTTPHandler) CreateDish(c *gin.Context) {
	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.catalogService.CreateDish(c.Request.Context(), catalog.DishInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		ImageURL:        req.ImageURL,
		Available:       req.Available,
		PrepTimeMinutes: req.PrepTimeMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Dish created", result))
}

func (h *CatalogHTTPHandler) UpdateDish(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid dish ID"))
		return
	}

	var req UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.catalogService.UpdateDish(c.Request.Context(), dishID, catalog.DishInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		ImageURL:        req.ImageURL,
		Available:       req.Available,
		PrepTimeMinutes: req.PrepTimeMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Dish updated", result))
}

func (h *CatalogHTTPHandler) SetAvailability(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid dish ID"))
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.catalogService.SetAvailability(c.Request.Context(), dishID, *req.Available)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Dish availability updated", result))
}

func (h *CatalogHTTPHandler) DeleteDish(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid dish ID"))
		return
	}

	if err := h.catalogService.DeleteDish(c.Request.Context(), dishID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Dish deleted", nil))
}

func (h *CatalogHTTPHandler) ListCategories(c *gin.Context) {
	results, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Categories retrieved successfully", results))
}

func (h *CatalogHTTPHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Category created", result))
}

func (h *CatalogHTTPHandler) CreateMenu(c *gin.Context) {
	var req CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date format, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	result, err := h.catalogService.CreateMenu(c.Request.Context(), req.Title, date, req.Price, req.DishIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Menu created", result))
}

func (h *CatalogHTTPHandler) TodayMenu(c *gin.Context) {
	result, err := h.catalogService.TodayMenu(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Menu of the day retrieved successfully", result))
}
