package repository

import (
	"context"

	"doge_heroes/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// RedisStateRepository stores each player's snapshot under a single Redis key,
// the server-side analog of the original single-key browser storage.
type RedisStateRepository struct {
	client *redis.Client
}

func NewRedisStateRepository(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{client: client}
}

func (r *RedisStateRepository) Load(ctx context.Context, key string) (*domain.GameState, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeState(raw)
}

func (r *RedisStateRepository) Save(ctx context.Context, key string, state *domain.GameState) error {
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	// без TTL: прогресс игрока не должен истекать
	return r.client.Set(ctx, key, raw, 0).Err()
}
