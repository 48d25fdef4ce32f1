package identity

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/LucasStill/webai-collector/internal/config"
)

// hashKey is the Redis hash all identity fields live under.
const hashKey = "webai:identity"

// Redis is a durable store for fleet deployments where identity must
// outlive the host. HSetNX carries the write-once rule.
type Redis struct {
	client *redis.Client
}

func NewRedis(cfg config.RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{client: rdb}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.HGet(ctx, hashKey, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *Redis) SetIfAbsent(ctx context.Context, key, value string) (string, error) {
	if value == "" {
		return r.Get(ctx, key)
	}
	if err := r.client.HSetNX(ctx, hashKey, key, value).Err(); err != nil {
		return "", err
	}
	return r.Get(ctx, key)
}

func (r *Redis) Close() error {
	return r.client.Close()
}
