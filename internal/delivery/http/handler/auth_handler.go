package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leomatch/leomatch-backend/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.UseCase
}

func NewAuthHandler(authUseCase *auth.UseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login handles POST /api/v1/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, expiresAt, err := h.authUseCase.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}
