package main

import (
	"context"
	"flag"
	"log"
	"os"

	"doge_heroes/internal/db"
	"doge_heroes/internal/domain"
	"doge_heroes/internal/repository"
	"doge_heroes/internal/service"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"
)

// Operator utility: wipes one player's progression back to defaults.
//
//	go run ./cmd/resetstate -user 12345 -backend redis
func main() {
	_ = godotenv.Load()

	userID := flag.Int64("user", 0, "telegram user id")
	backend := flag.String("backend", "redis", "storage backend: redis | postgres")
	redisAddr := flag.String("redis", "localhost:6379", "redis address")
	dsn := flag.String("dsn", "", "postgres dsn (defaults to DATABASE_URL)")
	flag.Parse()

	if *userID == 0 {
		log.Fatal("-user is required")
	}

	var repo repository.StateRepository
	switch *backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		repo = repository.NewRedisStateRepository(client)
	case "postgres":
		if *dsn == "" {
			*dsn = os.Getenv("DATABASE_URL")
		}
		if *dsn == "" {
			log.Fatal("postgres backend needs -dsn or DATABASE_URL")
		}
		pool := db.Connect(*dsn)
		defer pool.Close()
		repo = repository.NewPostgresStateRepository(pool)
	default:
		log.Fatalf("unknown backend %q", *backend)
	}

	ctx := context.Background()
	key := service.StateKey(*userID)

	if err := repo.Save(ctx, key, domain.NewInitialState()); err != nil {
		log.Fatalf("reset failed: %v", err)
	}

	log.Printf("state reset for user %d (key %s)\n", *userID, key)
}
