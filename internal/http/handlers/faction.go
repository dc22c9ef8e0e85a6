package handlers

import (
	"errors"
	"net/http"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/game"

	"github.com/gin-gonic/gin"
)

type SelectFactionRequest struct {
	Faction string `json:"faction"`
}

// SelectFaction records the faction choice and grants its bonus.
func (h *Handler) SelectFaction(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req SelectFactionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := ledger.SelectFaction(c.Request.Context(), domain.Faction(req.Faction))
	if err != nil {
		if errors.Is(err, game.ErrUnknownFaction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown faction"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "faction select failed"})
		return
	}

	h.Svc.Audit(c.Request.Context(), userID, domain.AuditFactionSelect, map[string]interface{}{
		"faction": req.Faction,
	})

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}
