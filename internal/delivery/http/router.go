package http

import (
	"github.com/gin-gonic/gin"

	"github.com/leomatch/leomatch-backend/internal/delivery/http/handler"
	"github.com/leomatch/leomatch-backend/internal/delivery/http/middleware"
)

type Router struct {
	webhookHandler *handler.WebhookHandler
	authHandler    *handler.AuthHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

func NewRouter(
	webhookHandler *handler.WebhookHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		webhookHandler: webhookHandler,
		authHandler:    authHandler,
		adminHandler:   adminHandler,
		authMiddleware: authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Telegram posts updates here; keep it outside the API group.
	router.POST("/webhook/telegram", r.webhookHandler.Handle)

	// API v1
	v1 := router.Group("/api/v1")
	{
		admin := v1.Group("/admin")
		{
			admin.POST("/login", r.authHandler.Login)

			protected := admin.Group("")
			protected.Use(r.authMiddleware.RequireAuth())
			{
				protected.GET("/stats", r.adminHandler.Stats)
				protected.GET("/users", r.adminHandler.Users)
				protected.GET("/matches", r.adminHandler.Matches)
				protected.GET("/messages", r.adminHandler.Messages)
				protected.POST("/users/:id/moderate", r.adminHandler.Moderate)
				protected.PUT("/users/:id/status", r.adminHandler.UpdateStatus)
			}
		}
	}

	return router
}
