package handlers

import (
	"net/http"

	"doge_heroes/internal/game"
	"doge_heroes/internal/service"
	"doge_heroes/internal/ton"

	"github.com/gin-gonic/gin"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	BotToken    string
	DevMode     bool
	ProofDomain string
	TONClient   *ton.Client
}

type Handler struct {
	Svc         *service.ProgressionService
	BotToken    string
	DevMode     bool
	ProofDomain string
	TONClient   *ton.Client
}

func NewHandler(svc *service.ProgressionService, cfg HandlerConfig) *Handler {
	return &Handler{
		Svc:         svc,
		BotToken:    cfg.BotToken,
		DevMode:     cfg.DevMode,
		ProofDomain: cfg.ProofDomain,
		TONClient:   cfg.TONClient,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// ledger resolves the caller's ledger or aborts with 401.
func (h *Handler) ledger(c *gin.Context) (*game.Ledger, int64, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, 0, false
	}
	return h.Svc.Ledger(c.Request.Context(), userID), userID, true
}
