package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"akounamatata-system/internal/services/cart"
)

type CartHTTPHandler struct {
	cartService *cart.Service
}

func NewCartHTTPHandler(cartService *cart.Service) *CartHTTPHandler {
	return &CartHTTPHandler{cartService: cartService}
}

type AddCartItemRequest struct {
	TableID  int64  `json:"table_id" binding:"required"`
	DishID   int64  `json:"dish_id" binding:"required"`
	Quantity int32  `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note,omitempty"`
}

type UpdateCartItemRequest struct {
	TableID  int64   `json:"table_id" binding:"required"`
	Quantity int32   `json:"quantity" binding:"required"`
	Note     *string `json:"note,omitempty"`
}

type ConvertCartRequest struct {
	TableID int64  `json:"table_id" binding:"required"`
	Mode    string `json:"mode,omitempty"`
	Comment string `json:"comment,omitempty"`
}

func (h *CartHTTPHandler) GetCart(c *gin.Context) {
	tableID, _ := strconv.ParseInt(c.Query("table_id"), 10, 64)

	result, err := h.cartService.Get(c.Request.Context(), callerID(c), tableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Cart retrieved successfully", result))
}

func (h *CartHTTPHandler) GetSummary(c *gin.Context) {
	summary, err := h.cartService.Summary(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Cart summary retrieved successfully", summary))
}

func (h *CartHTTPHandler) AddItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), callerID(c), req.TableID, req.DishID, req.Quantity, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Item added to cart", result))
}

func (h *CartHTTPHandler) UpdateItem(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("dishId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid dish ID"))
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), callerID(c), req.TableID, dishID, req.Quantity, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Cart item updated", result))
}

func (h *CartHTTPHandler) RemoveItem(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("dishId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid dish ID"))
		return
	}

	tableID, err := strconv.ParseInt(c.Query("table_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), callerID(c), tableID, dishID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Item removed from cart", result))
}

func (h *CartHTTPHandler) Clear(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Query("table_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	result, err := h.cartService.Clear(c.Request.Context(), callerID(c), tableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Cart cleared", result))
}

func (h *CartHTTPHandler) Convert(c *gin.Context) {
	var req ConvertCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.cartService.ConvertToOrder(c.Request.Context(), callerID(c), req.TableID, req.Mode, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Order created from cart", result))
}
