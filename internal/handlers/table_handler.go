package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"akounamatata-system/internal/services/table"
)

type TableHTTPHandler struct {
	tableService *table.Service
}

func NewTableHTTPHandler(tableService *table.Service) *TableHTTPHandler {
	return &TableHTTPHandler{tableService: tableService}
}

type CreateTableRequest struct {
	Number       string `json:"number" binding:"required"`
	Capacity     int32  `json:"capacity" binding:"required,min=1,max=20"`
	RestaurantID string `json:"restaurant_id,omitempty"`
}

type UpdateTableRequest struct {
	Number   *string `json:"number,omitempty"`
	Capacity *int32  `json:"capacity,omitempty"`
}

type ValidateQRRequest struct {
	Token string `json:"token" binding:"required"`
}

type OccupyTableRequest struct {
	ClientID int64 `json:"client_id,omitempty"`
}

type ListTablesQuery struct {
	Page     int   `form:"page,default=1"`
	PageSize int   `form:"page_size,default=10"`
	Occupied *bool `form:"occupied,omitempty"`
}

func (h *TableHTTPHandler) GetTable(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	result, err := h.tableService.Get(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Table retrieved successfully", result))
}

func (h *TableHTTPHandler) ListTables(c *gin.Context) {
	var q ListTablesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	results, total, err := h.tableService.List(c.Request.Context(), table.ListFilter{
		Occupied: q.Occupied,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	meta := PaginationMeta{Page: q.Page, PageSize: q.PageSize, Total: total}
	c.JSON(http.StatusOK, successWithMetaResponse("Tables retrieved successfully", results, meta))
}

func (h *TableHTTPHandler) ListAvailable(c *gin.Context) {
	results, err := h.tableService.Available(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Available tables retrieved successfully", results))
}

func (h *TableHTTPHandler) CreateTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, image, err := h.tableService.Create(c.Request.Context(), req.Number, req.Capacity, req.RestaurantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Table created", gin.H{
		"table":    result,
		"qr_image": image,
	}))
}

func (h *TableHTTPHandler) UpdateTable(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.tableService.Update(c.Request.Context(), tableID, req.Number, req.Capacity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Table updated", result))
}

func (h *TableHTTPHandler) DeleteTable(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	if err := h.tableService.Delete(c.Request.Context(), tableID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Table deleted", nil))
}

func (h *TableHTTPHandler) OccupyTable(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	var req OccupyTableRequest
	_ = c.ShouldBindJSON(&req)

	clientID := req.ClientID
	if clientID == 0 || !isAdmin(c) {
		clientID = callerID(c)
	}

	result, err := h.tableService.Occupy(c.Request.Context(), tableID, clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Table occupied", result))
}

func (h *TableHTTPHandler) FreeTable(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	result, err := h.tableService.Free(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Table freed", result))
}

func (h *TableHTTPHandler) TableQRCode(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	token, image, err := h.tableService.QRCode(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("QR code retrieved successfully", gin.H{
		"token":    token,
		"qr_image": image,
	}))
}

func (h *TableHTTPHandler) ValidateQR(c *gin.Context) {
	var req ValidateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	result, err := h.tableService.ValidateQR(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("QR code valid", result))
}
