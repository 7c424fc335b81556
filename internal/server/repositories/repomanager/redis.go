package repomanager

import (
	"context"
	"fmt"

	"github.com/RamaSai2519/secure-vault/internal/server/repositories/items"
	goredis "github.com/redis/go-redis/v9"
)

// RedisRepositoryManager serves items from Redis. Redis needs no schema, so
// RunMigrations only checks connectivity.
type RedisRepositoryManager struct {
	client *goredis.Client
	items  items.Repository
}

var _ RepositoryManager = (*RedisRepositoryManager)(nil)

// NewRedisRepositoryManager creates a client from a URL such as
// "redis://localhost:6379/0".
func NewRedisRepositoryManager(redisURL string) (*RedisRepositoryManager, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewRedisRepositoryManagerFromClient(goredis.NewClient(opts)), nil
}

func NewRedisRepositoryManagerFromClient(client *goredis.Client) *RedisRepositoryManager {
	return &RedisRepositoryManager{
		client: client,
		items:  items.NewRedisRepository(client),
	}
}

func (m *RedisRepositoryManager) Items() items.Repository {
	return m.items
}

func (m *RedisRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.Ping(ctx)
}

func (m *RedisRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *RedisRepositoryManager) Close() error {
	return m.client.Close()
}
