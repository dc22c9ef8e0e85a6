package handlers

import (
	"net/http"

	"doge_heroes/internal/domain"

	"github.com/gin-gonic/gin"
)

// LinkTelegram marks the Telegram link in the ledger. Idempotent.
func (h *Handler) LinkTelegram(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	ledger.LinkTelegram(c.Request.Context())
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditTelegramLink, nil)

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}
