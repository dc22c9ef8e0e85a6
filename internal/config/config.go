package config

import (
	"os"
	"strconv"
	"strings"

	"doge_heroes/internal/logger"

	"github.com/joho/godotenv"
)

// StorageBackend выбирает реализацию хранилища снапшотов
type StorageBackend string

const (
	StorageRedis    StorageBackend = "redis"
	StoragePostgres StorageBackend = "postgres"
	StorageMemory   StorageBackend = "memory"
)

type Config struct {
	AppPort     string
	DevMode     bool
	JWTSecret   string
	BotToken    string
	BotUsername string

	// Storage
	StorageBackend StorageBackend
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// TON
	TONNetwork     string // mainnet | testnet
	TONProofDomain string // домен, которому должен соответствовать TON Connect proof

	// Rate limits
	APIRateLimit  int
	APIRateWindow int // секунды
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	devMode := os.Getenv("DEV_MODE") == "true"

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" && !devMode {
		logger.Fatal("BOT_TOKEN is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	backend := StorageBackend(strings.ToLower(os.Getenv("STORAGE_BACKEND")))
	switch backend {
	case StorageRedis, StoragePostgres, StorageMemory:
	case "":
		backend = StorageRedis
	default:
		logger.Fatal("unknown STORAGE_BACKEND: " + string(backend))
	}

	dbURL := os.Getenv("DATABASE_URL")
	if backend == StoragePostgres && dbURL == "" {
		logger.Fatal("DATABASE_URL is not set for postgres storage")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	network := os.Getenv("TON_NETWORK")
	if network == "" {
		network = "mainnet"
	}

	// API rate limits (по умолчанию 60 запросов за 60 секунд)
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := 60
	if v := os.Getenv("API_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = n
		}
	}

	return &Config{
		AppPort:        port,
		DevMode:        devMode,
		JWTSecret:      jwtSecret,
		BotToken:       botToken,
		BotUsername:    os.Getenv("BOT_USERNAME"),
		StorageBackend: backend,
		DatabaseURL:    dbURL,
		RedisAddr:      redisAddr,
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		TONNetwork:     network,
		TONProofDomain: os.Getenv("TON_PROOF_DOMAIN"),
		APIRateLimit:   apiRateLimit,
		APIRateWindow:  apiRateWindow,
	}
}
