package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/usecase/admin"
)

type AdminHandler struct {
	adminUseCase *admin.UseCase
}

func NewAdminHandler(adminUseCase *admin.UseCase) *AdminHandler {
	return &AdminHandler{adminUseCase: adminUseCase}
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminUseCase.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Users handles GET /api/v1/admin/users?status=
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.adminUseCase.Users(c.Request.Context(), c.Query("status"))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Matches handles GET /api/v1/admin/matches
func (h *AdminHandler) Matches(c *gin.Context) {
	matches, err := h.adminUseCase.Matches(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load matches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// Messages handles GET /api/v1/admin/messages?match_id=
func (h *AdminHandler) Messages(c *gin.Context) {
	var matchID *int
	if raw := c.Query("match_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid match_id"})
			return
		}
		matchID = &id
	}

	messages, err := h.adminUseCase.Messages(c.Request.Context(), matchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type ModerateRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// Moderate handles POST /api/v1/admin/users/:id/moderate
func (h *AdminHandler) Moderate(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.adminUseCase.Moderate(c.Request.Context(), userID, req.Action); err != nil {
		h.writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/v1/admin/users/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.adminUseCase.SetUserStatus(c.Request.Context(), userID, req.Status); err != nil {
		h.writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update user"})
	}
}
