package preferences

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/estatedesk-backend/pkg/redis"
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PreferencesKey(storageKey string) string
}

// RedisBackend keeps the blob in redis without expiry.
type RedisBackend struct {
	client redisStore
}

func NewRedisBackend(client redisStore) (*RedisBackend, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisBackend{client: client}, nil
}

func (b *RedisBackend) Load(ctx context.Context, storageKey string) ([]byte, error) {
	payload, err := b.client.Get(ctx, b.client.PreferencesKey(storageKey))
	if redis.IsNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preference blob: %w", err)
	}
	return []byte(payload), nil
}

func (b *RedisBackend) Save(ctx context.Context, storageKey string, payload []byte) error {
	if err := b.client.Set(ctx, b.client.PreferencesKey(storageKey), string(payload), 0); err != nil {
		return fmt.Errorf("save preference blob: %w", err)
	}
	return nil
}
