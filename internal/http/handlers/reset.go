package handlers

import (
	"net/http"

	"doge_heroes/internal/domain"

	"github.com/gin-gonic/gin"
)

// ResetGameState wipes the caller's progression back to defaults. Total and
// irreversible; requires an explicit confirmation flag.
func (h *Handler) ResetGameState(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.BindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required"})
		return
	}

	ledger.ResetGameState(c.Request.Context())
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditStateReset, nil)

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}
