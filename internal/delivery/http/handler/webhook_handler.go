package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/delivery/telegram"
)

type WebhookHandler struct {
	dispatcher *telegram.Dispatcher
	log        *zap.SugaredLogger
}

func NewWebhookHandler(dispatcher *telegram.Dispatcher, log *zap.SugaredLogger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, log: log}
}

// Handle handles POST /webhook/telegram. Always answers 200: a non-2xx
// makes Telegram redeliver, and the dedup cache would drop the replay
// anyway. Failures are logged instead.
func (h *WebhookHandler) Handle(c *gin.Context) {
	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warnw("malformed webhook payload", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.dispatcher.HandleUpdate(c.Request.Context(), &update); err != nil {
		h.log.Errorw("update processing failed", "update_id", update.UpdateID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
