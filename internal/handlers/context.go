package handlers

import (
	"github.com/gin-gonic/gin"

	"akounamatata-system/internal/middleware"
	"akounamatata-system/internal/services/order"
)

func callerID(c *gin.Context) int64 {
	v, _ := c.Get(middleware.ContextUserID)
	id, _ := v.(int64)
	return id
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextRole) == "admin"
}

func requesterFrom(c *gin.Context) order.Requester {
	return order.Requester{UserID: callerID(c), Admin: isAdmin(c)}
}
