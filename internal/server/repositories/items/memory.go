package items

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/server/models"
)

// MemoryRepository keeps items in a map. It is meant for development and
// tests; contents are lost on restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.VaultItem
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.VaultItem)}
}

func (r *MemoryRepository) Create(ctx context.Context, item *models.VaultItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("duplicate item id %s", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.VaultItem, 0)
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			item := item
			result = append(result, &item)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.VaultItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return &item, nil
}

func (r *MemoryRepository) UpdateOwned(ctx context.Context, item *models.VaultItem) (*models.VaultItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok || stored.OwnerID != item.OwnerID {
		return nil, common.ErrorNotFound
	}

	stored.Title = item.Title
	stored.Username = item.Username
	stored.Password = item.Password
	stored.URL = item.URL
	stored.Notes = item.Notes
	stored.UpdatedAt = item.UpdatedAt
	r.items[item.ID] = stored

	return &stored, nil
}

func (r *MemoryRepository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	return nil
}
