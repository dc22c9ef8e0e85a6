package handlers

import (
	"net/http"
	"strconv"

	"doge_heroes/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetState returns the caller's full progression snapshot.
func (h *Handler) GetState(c *gin.Context) {
	ledger, _, ok := h.ledger(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":        ledger.GetState(),
		"gameUnlocked": ledger.IsGameUnlocked(),
	})
}

// GetCatalog returns the character catalog with ownership flags.
func (h *Handler) GetCatalog(c *gin.Context) {
	ledger, _, ok := h.ledger(c)
	if !ok {
		return
	}
	state := ledger.GetState()

	type catalogEntry struct {
		domain.Character
		Owned     bool  `json:"owned"`
		Milestone int64 `json:"milestone,omitempty"`
	}

	entries := make([]catalogEntry, 0, len(domain.CharacterCatalog))
	for _, ch := range domain.CharacterCatalog {
		entries = append(entries, catalogEntry{
			Character: ch.Clone(),
			Owned:     state.OwnsCharacter(ch.ID),
			Milestone: domain.CharacterMilestone(ch.ID),
		})
	}

	c.JSON(http.StatusOK, gin.H{"characters": entries})
}

// GetCharacter returns one catalog entry with its ownership flag.
func (h *Handler) GetCharacter(c *gin.Context) {
	ledger, _, ok := h.ledger(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid character id"})
		return
	}

	character := ledger.GetCharacterByID(id)
	if character == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"character": character,
		"owned":     ledger.GetState().OwnsCharacter(id),
		"milestone": domain.CharacterMilestone(id),
	})
}

// GetDonationTiers returns the fixed milestone table.
func (h *Handler) GetDonationTiers(c *gin.Context) {
	ledger, _, ok := h.ledger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": ledger.GetDonationTiers()})
}

// GetNextUnlock returns the closest affordable-by-donation character.
func (h *Handler) GetNextUnlock(c *gin.Context) {
	ledger, _, ok := h.ledger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ledger.GetNextUnlockableCharacter())
}
