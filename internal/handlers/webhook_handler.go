package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/payments"
	"reseller-ledger-backend/internal/services/webhooks"
)

const maxWebhookBody = 65536

// EventParser verifies and decodes a provider payload.
type EventParser interface {
	ParseEvent(payload []byte, signature string) (*payments.Event, error)
}

type WebhookHandler struct {
	parser EventParser
	gate   *webhooks.Gate
	logger *zap.Logger
}

func NewWebhookHandler(parser EventParser, gate *webhooks.Gate, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{parser: parser, gate: gate, logger: logger}
}

// Stripe receives provider events. A 500 asks the provider to retry.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}

	ev, err := h.parser.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("webhook rejected", zap.Error(err))
		respondError(c, err)
		return
	}
	if ev.ID == "" || ev.Type == "" {
		badRequest(c, "event id and type are required")
		return
	}

	outcome, err := h.gate.Process(c.Request.Context(), *ev)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing_failed", "event_id": ev.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": outcome, "event_id": ev.ID, "type": ev.Type})
}
