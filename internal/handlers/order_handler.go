package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"akounamatata-system/internal/services/order"
)

type OrderHTTPHandler struct {
	orderService *order.Service
}

func NewOrderHTTPHandler(orderService *order.Service) *OrderHTTPHandler {
	return &OrderHTTPHandler{orderService: orderService}
}

type ChangeOrderStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

type ListOrdersQuery struct {
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"page_size,default=20"`
	Status    string `form:"status,omitempty"`
	ClientID  int64  `form:"client_id,omitempty"`
	TableID   int64  `form:"table_id,omitempty"`
	StartDate string `form:"start_date,omitempty"`
	EndDate   string `form:"end_date,omitempty"`
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	result, err := h.orderService.Get(c.Request.Context(), orderID, requesterFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", result))
}

func (h *OrderHTTPHandler) ListOrders(c *gin.Context) {
	var q ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	f := order.ListFilter{
		Status:   q.Status,
		ClientID: q.ClientID,
		TableID:  q.TableID,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.StartDate != "" {
		if t, err := time.Parse("2006-01-02", q.StartDate); err == nil {
			f.From = t
		}
	}
	if q.EndDate != "" {
		if t, err := time.Parse("2006-01-02", q.EndDate); err == nil {
			f.To = t.Add(24 * time.Hour)
		}
	}

	results, total, err := h.orderService.List(c.Request.Context(), f, requesterFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	meta := PaginationMeta{Page: q.Page, PageSize: q.PageSize, Total: total}
	c.JSON(http.StatusOK, successWithMetaResponse("Orders retrieved successfully", results, meta))
}

func (h *OrderHTTPHandler) ChangeStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.orderService.ChangeStatus(c.Request.Context(), orderID, requesterFrom(c), req.Status, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order status updated", result))
}

func (h *OrderHTTPHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), orderID, requesterFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order cancelled", result))
}

func (h *OrderHTTPHandler) KitchenQueue(c *gin.Context) {
	results, err := h.orderService.KitchenQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Kitchen queue retrieved successfully", results))
}

func (h *OrderHTTPHandler) Stats(c *gin.Context) {
	period := c.DefaultQuery("period", "today")

	stats, err := h.orderService.Stats(c.Request.Context(), period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order statistics retrieved successfully", stats))
}
