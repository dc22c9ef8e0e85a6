package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/game"

	"github.com/gin-gonic/gin"
)

// Debug mutation routes. Registered only in dev mode; production progression
// flows exclusively through gacha, donations, factions and staking.

type AddExperienceRequest struct {
	Amount int `json:"amount"`
}

func (h *Handler) AddExperience(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req AddExperienceRequest
	if err := c.BindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	gained := ledger.AddExperience(c.Request.Context(), req.Amount)
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditExperienceAdd, map[string]interface{}{
		"amount":       req.Amount,
		"levelsGained": gained,
	})

	c.JSON(http.StatusOK, gin.H{
		"levelsGained": gained,
		"state":        ledger.GetState(),
	})
}

type AddCurrencyRequest struct {
	Currency string `json:"currency"` // "ton" | "dogeCoin"
	Amount   int64  `json:"amount"`
}

func (h *Handler) AddCurrency(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req AddCurrencyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	t := domain.CurrencyType(req.Currency)
	if t != domain.CurrencyTON && t != domain.CurrencyDogeCoin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency"})
		return
	}

	ledger.AddCurrency(c.Request.Context(), t, req.Amount)
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditCurrencyAdd, map[string]interface{}{
		"currency": req.Currency,
		"amount":   req.Amount,
	})

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}

// UnlockCharacter grants a catalog character directly.
func (h *Handler) UnlockCharacter(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character id"})
		return
	}

	character, newly, err := ledger.UnlockCharacter(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, game.ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unlock failed"})
		return
	}

	if newly {
		h.Svc.Audit(c.Request.Context(), userID, domain.AuditCharacterUnlock, map[string]interface{}{
			"characterId": id,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"character": character,
		"newly":     newly,
		"state":     ledger.GetState(),
	})
}

type UnlockFeatureRequest struct {
	Feature string `json:"feature"`
}

func (h *Handler) UnlockFeature(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req UnlockFeatureRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ledger.UnlockFeature(c.Request.Context(), domain.FeatureName(req.Feature))
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditFeatureUnlock, map[string]interface{}{
		"feature": req.Feature,
	})

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}
