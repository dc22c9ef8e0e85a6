package handlers

import (
	"net/http"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/ton"

	"github.com/gin-gonic/gin"
)

type ConnectWalletRequest struct {
	Address string `json:"address"`
	// Optional TON Connect ownership proof; verified when present.
	Proof   *ton.ConnectProof  `json:"proof,omitempty"`
	Account *ton.WalletAccount `json:"account,omitempty"`
}

// ConnectWallet validates the address (and the TON Connect proof when sent)
// and mirrors the connection into the ledger.
func (h *Handler) ConnectWallet(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	var req ConnectWalletRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !ton.ValidateAddress(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ton address"})
		return
	}

	if req.Proof != nil {
		if req.Account == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "proof without account"})
			return
		}
		if err := ton.VerifyProof(*req.Account, *req.Proof, h.ProofDomain); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "proof verification failed"})
			return
		}
	}

	ledger.ConnectWallet(c.Request.Context(), req.Address)
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditWalletConnect, map[string]interface{}{
		"address": req.Address,
	})

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}

func (h *Handler) DisconnectWallet(c *gin.Context) {
	ledger, userID, ok := h.ledger(c)
	if !ok {
		return
	}

	ledger.DisconnectWallet(c.Request.Context())
	h.Svc.Audit(c.Request.Context(), userID, domain.AuditWalletDisconnect, nil)

	c.JSON(http.StatusOK, gin.H{"state": ledger.GetState()})
}

// WalletOnChain returns the on-chain account info for the connected wallet.
func (h *Handler) WalletOnChain(c *gin.Context) {
	ledger, _, ok := h.ledger(c)
	if !ok {
		return
	}

	if h.TONClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ton api not configured"})
		return
	}

	state := ledger.GetState()
	if !state.WalletConnected || state.WalletAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet not connected"})
		return
	}

	addr, err := ton.NormalizeAddress(state.WalletAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
		return
	}

	info, err := h.TONClient.GetAccountInfo(c.Request.Context(), addr)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "ton api error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":    info.Address,
		"balance":    info.Balance,
		"balanceTon": ton.NanoToTON(info.Balance),
		"status":     info.Status,
	})
}
