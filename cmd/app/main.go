package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doge_heroes/internal/bot"
	"doge_heroes/internal/config"
	"doge_heroes/internal/db"
	"doge_heroes/internal/game"
	httpServer "doge_heroes/internal/http"
	"doge_heroes/internal/http/middleware"
	"doge_heroes/internal/logger"
	"doge_heroes/internal/repository"
	"doge_heroes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	// storage backend for progression snapshots
	var (
		stateRepo    repository.StateRepository
		auditRepo    *repository.AuditRepository
		storageCheck func(ctx context.Context) error
	)

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool := db.Connect(cfg.DatabaseURL)
		defer pool.Close()
		stateRepo = repository.NewPostgresStateRepository(pool)
		auditRepo = repository.NewAuditRepository(pool)
		storageCheck = pool.Ping

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		logger.Info("redis connected", "addr", cfg.RedisAddr)

		stateRepo = repository.NewRedisStateRepository(client)
		storageCheck = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		middleware.SetRedisClient(client)

	case config.StorageMemory:
		stateRepo = repository.NewMemoryStateRepository()
		logger.Warn("using in-memory storage, state is lost on restart")
	}

	if cfg.StorageBackend != config.StorageRedis {
		middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	svc := service.NewProgressionService(stateRepo, auditRepo)

	// milestone notifications via Telegram
	var notifyBot *bot.NotifyBot
	if cfg.BotToken != "" && !cfg.DevMode {
		var err error
		notifyBot, err = bot.NewNotifyBot(cfg.BotToken)
		if err != nil {
			logger.Warn("failed to start notify bot", "error", err)
		} else {
			svc.SetMilestoneNotifyCallback(func(userID int64, ev game.MilestoneEvent) {
				notifyBot.NotifyMilestone(userID, ev)
			})
			go notifyBot.Start()
		}
	}

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// coarse in-memory limit in front of everything; the per-route Redis
	// limiter does the precise work
	r.Use(middleware.SimpleRateLimit(600, time.Minute))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, svc, cfg, version, storageCheck)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	if notifyBot != nil {
		notifyBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
