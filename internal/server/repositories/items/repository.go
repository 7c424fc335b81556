// Package items persists encrypted vault items. Every owner-scoped operation
// matches on both item id and owner id in a single store operation, so a
// record belonging to someone else is indistinguishable from a missing one.
package items

import (
	"context"

	"github.com/RamaSai2519/secure-vault/internal/server/models"
)

// Repository is implemented by the PostgreSQL, Redis and in-memory backends.
//
// GetOwned, UpdateOwned and DeleteOwned return common.ErrorNotFound when no
// item matches both id and ownerID.
type Repository interface {
	Create(ctx context.Context, item *models.VaultItem) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultItem, error)
	GetOwned(ctx context.Context, ownerID, id string) (*models.VaultItem, error)
	// UpdateOwned replaces the five encrypted fields and UpdatedAt of the
	// matching item and returns the stored record.
	UpdateOwned(ctx context.Context, item *models.VaultItem) (*models.VaultItem, error)
	DeleteOwned(ctx context.Context, ownerID, id string) error
}
