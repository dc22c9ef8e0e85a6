package http

import (
	"context"
	"time"

	"doge_heroes/internal/config"
	"doge_heroes/internal/http/handlers"
	"doge_heroes/internal/http/middleware"
	"doge_heroes/internal/service"
	"doge_heroes/internal/ton"
	"doge_heroes/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the whole HTTP surface. storageCheck pings the
// configured state store; pass nil for the in-memory backend.
func RegisterRoutes(r *gin.Engine, svc *service.ProgressionService, cfg *config.Config, version string, storageCheck func(ctx context.Context) error) {
	var tonClient *ton.Client
	if !cfg.DevMode {
		tonClient = ton.NewClient(ton.Network(cfg.TONNetwork), "")
	}

	h := handlers.NewHandler(svc, handlers.HandlerConfig{
		BotToken:    cfg.BotToken,
		DevMode:     cfg.DevMode,
		ProofDomain: cfg.TONProofDomain,
		TONClient:   tonClient,
	})
	healthHandler := handlers.NewHealthHandler(storageCheck, version)

	apiRateLimit := cfg.APIRateLimit
	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	// Auth (tighter IP limit than the rest of the API)
	api.POST("/auth", middleware.RedisRateLimit(5, time.Minute), h.Auth)

	// Progression state
	api.GET("/state", middleware.JWT(), h.GetState)
	api.GET("/characters", middleware.JWT(), h.GetCatalog)
	api.GET("/characters/:id", middleware.JWT(), h.GetCharacter)
	api.GET("/donations/tiers", middleware.JWT(), h.GetDonationTiers)
	api.GET("/donations/next", middleware.JWT(), h.GetNextUnlock)

	// Wallet
	api.POST("/wallet/connect", middleware.JWT(), h.ConnectWallet)
	api.DELETE("/wallet", middleware.JWT(), h.DisconnectWallet)
	api.GET("/wallet/onchain", middleware.JWT(), h.WalletOnChain)

	// Telegram link and faction choice
	api.POST("/telegram/link", middleware.JWT(), h.LinkTelegram)
	api.POST("/faction", middleware.JWT(), h.SelectFaction)

	// Gacha (per-user action limit on top of the IP limit)
	gachaRL := middleware.ActionRateLimit("gacha", 30, time.Minute)
	api.POST("/gacha/pull", middleware.JWT(), gachaRL, h.PullGacha)
	api.POST("/donations/unlock", middleware.JWT(), h.DonateToUnlock)

	// Staking
	api.POST("/staking/start", middleware.JWT(), h.StartStaking)
	api.POST("/staking/claim", middleware.JWT(), middleware.ActionRateLimit("staking_claim", 10, time.Minute), h.ClaimStakingRewards)
	api.GET("/staking/projection", middleware.JWT(), h.StakingProjection)

	// Reset and audit trail
	api.POST("/reset", middleware.JWT(), h.ResetGameState)
	api.GET("/audit", middleware.JWT(), h.GetAuditTrail)

	// Debug mutations, dev mode only
	if cfg.DevMode {
		debug := api.Group("/debug")
		debug.Use(middleware.JWT())
		{
			debug.POST("/experience", h.AddExperience)
			debug.POST("/currency", h.AddCurrency)
			debug.POST("/characters/:id/unlock", h.UnlockCharacter)
			debug.POST("/features/unlock", h.UnlockFeature)
		}
	}

	// WebSocket state push
	hub := ws.NewHub(svc)
	r.GET("/ws", ws.HandleWS(hub))
}
