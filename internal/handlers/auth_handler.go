package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"akounamatata-system/internal/services/auth"
)

type AuthHTTPHandler struct {
	authService *auth.Service
}

func NewAuthHTTPHandler(authService *auth.Service) *AuthHTTPHandler {
	return &AuthHTTPHandler{authService: authService}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHTTPHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	session, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Registration successful", session))
}

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Login successful", session))
}
