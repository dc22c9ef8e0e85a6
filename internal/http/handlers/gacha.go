package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/game"
	"doge_heroes/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type GachaPullRequest struct {
	TonAmount int64 `json:"tonAmount"`
}

// PullGacha exchanges TON for a weighted-random character.
func (h *Handler) PullGacha(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req GachaPullRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.TonAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tonAmount must be positive"})
		return
	}

	result, err := ledger.PullGacha(c.Request.Context(), req.TonAmount)
	if err != nil {
		if errors.Is(err, game.ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gacha pull failed"})
		return
	}

	middleware.GachaPulls.WithLabelValues(string(result.Rarity)).Inc()
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditGachaPull, map[string]interface{}{
		"tonAmount":   req.TonAmount,
		"characterId": result.Character.ID,
		"rarity":      result.Rarity,
		"leveledUp":   result.LeveledUp,
	})

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"state":  ledger.GetState(),
	})
}

type DonateUnlockRequest struct {
	CharacterID int `json:"characterId"`
}

// DonateToUnlock grants a character when the TON balance covers its
// milestone. The balance is never debited by this route.
func (h *Handler) DonateToUnlock(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req DonateUnlockRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !ledger.DonateToUnlock(c.Request.Context(), req.CharacterID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "character not unlockable"})
		return
	}

	milestone := domain.CharacterMilestone(req.CharacterID)
	middleware.MilestoneUnlocks.WithLabelValues(strconv.FormatInt(milestone, 10)).Inc()
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditCharacterUnlock, map[string]interface{}{
		"characterId": req.CharacterID,
		"milestone":   milestone,
	})

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}
