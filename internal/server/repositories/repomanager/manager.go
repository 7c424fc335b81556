// Package repomanager vends the item repository of the configured storage
// backend and owns that backend's connection lifecycle.
package repomanager

import (
	"context"
	"fmt"

	"github.com/RamaSai2519/secure-vault/internal/server/config"
	"github.com/RamaSai2519/secure-vault/internal/server/repositories/items"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Items() items.Repository
	Close() error
}

// New builds the RepositoryManager selected by cfg.Storage.
func New(cfg *config.Config) (RepositoryManager, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		return NewPostgresRepositoryManager(cfg.DatabaseDSN)
	case config.StorageRedis:
		return NewRedisRepositoryManager(cfg.RedisURL)
	case config.StorageMemory:
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
