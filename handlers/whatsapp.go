package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serenity/services/conversation"
)

// WhatsAppHandler is the Twilio webhook boundary.
type WhatsAppHandler struct {
	Engine *conversation.Engine
	Logger *zap.Logger
}

func NewWhatsAppHandler(engine *conversation.Engine, logger *zap.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{Engine: engine, Logger: logger}
}

// Webhook handles one inbound WhatsApp message. Twilio posts urlencoded
// From/Body. It always acknowledges with 200 so Twilio does not retry the
// turn; failures are logged here instead.
func (h *WhatsAppHandler) Webhook(c *gin.Context) {
	from := c.PostForm("From")
	body := strings.TrimSpace(c.PostForm("Body"))

	if from == "" {
		h.Logger.Warn("Webhook payload missing From field")
		c.Status(http.StatusOK)
		return
	}

	h.Logger.Info("Incoming message", zap.String("from", from), zap.String("body", body))
	if err := h.Engine.HandleMessage(c.Request.Context(), from, body); err != nil {
		h.Logger.Error("Conversation turn failed", zap.String("from", from), zap.Error(err))
	}

	c.Status(http.StatusOK)
}
