package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"akounamatata-system/internal/services/core"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type PaginationMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// respondError maps service error categories to HTTP statuses. Anything
// uncategorized is a 500 with an opaque message; the service layer has
// already logged the detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, core.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
	}
}
