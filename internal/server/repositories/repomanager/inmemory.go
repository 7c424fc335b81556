package repomanager

import (
	"context"

	"github.com/RamaSai2519/secure-vault/internal/server/repositories/items"
)

type InMemoryRepositoryManager struct {
	items items.Repository
}

var _ RepositoryManager = (*InMemoryRepositoryManager)(nil)

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{items: items.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Items() items.Repository {
	return m.items
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Ping(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
