package handlers

import (
	"errors"
	"net/http"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/game"
	"doge_heroes/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type StartStakingRequest struct {
	Amount int64 `json:"amount"`
}

// StartStaking locks TON into the staking pool.
func (h *Handler) StartStaking(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req StartStakingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	if err := ledger.StartStaking(c.Request.Context(), req.Amount); err != nil {
		if errors.Is(err, game.ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "staking start failed"})
		return
	}

	h.Svc.Audit(c.Request.Context(), userID, domain.AuditStakingStart, map[string]interface{}{
		"amount": req.Amount,
	})

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}

// ClaimStakingRewards credits accrued rewards and restarts the accrual clock.
func (h *Handler) ClaimStakingRewards(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	reward, err := ledger.ClaimStakingRewards(c.Request.Context())
	if err != nil {
		if errors.Is(err, game.ErrNoActiveStaking) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no active staking"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claim failed"})
		return
	}

	if reward > 0 {
		middleware.StakingClaims.Inc()
		h.Svc.Audit(c.Request.Context(), userID, domain.AuditStakingClaim, map[string]interface{}{
			"reward": reward,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"reward": reward,
		"state":  ledger.GetState(),
	})
}

// StakingProjection reports the currently accrued (unclaimed) reward.
func (h *Handler) StakingProjection(c *gin.Context) {
	ledger, _, ok := h.ledger(c)
	if !ok {
		return
	}

	reward, elapsed := ledger.StakingProjection()
	c.JSON(http.StatusOK, gin.H{
		"reward":         reward,
		"elapsedSeconds": int64(elapsed.Seconds()),
	})
}
