package items

import (
	"context"
	"testing"
	"time"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(owner string, createdAt time.Time) *models.VaultItem {
	return &models.VaultItem{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Title:     "ct-title",
		Username:  "ct-username",
		Password:  "ct-password",
		URL:       "",
		Notes:     "ct-notes",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// runRepositoryContract exercises the behaviour every backend must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("list of unknown owner is empty", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.ListByOwner(ctx, "nobody-"+uuid.NewString())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("create then list newest first", func(t *testing.T) {
		repo := newRepo(t)
		owner := "owner-" + uuid.NewString()

		older := newTestItem(owner, base)
		newer := newTestItem(owner, base.Add(time.Minute))
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))
		require.NoError(t, repo.Create(ctx, newTestItem("other-"+uuid.NewString(), base.Add(time.Hour))))

		got, err := repo.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)
		assert.Equal(t, "ct-title", got[0].Title)
		assert.Equal(t, "", got[0].URL)
		assert.True(t, newer.CreatedAt.Equal(got[0].CreatedAt))
	})

	t.Run("get is owner scoped", func(t *testing.T) {
		repo := newRepo(t)
		item := newTestItem("owner-"+uuid.NewString(), base)
		require.NoError(t, repo.Create(ctx, item))

		got, err := repo.GetOwned(ctx, item.OwnerID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.Password, got.Password)

		_, err = repo.GetOwned(ctx, "intruder", item.ID)
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = repo.GetOwned(ctx, item.OwnerID, uuid.NewString())
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("update replaces fields and keeps created_at", func(t *testing.T) {
		repo := newRepo(t)
		item := newTestItem("owner-"+uuid.NewString(), base)
		require.NoError(t, repo.Create(ctx, item))

		upd := *item
		upd.Title, upd.Username, upd.Password, upd.URL, upd.Notes = "t2", "u2", "p2", "url2", ""
		upd.CreatedAt = time.Time{}
		upd.UpdatedAt = base.Add(time.Hour)

		stored, err := repo.UpdateOwned(ctx, &upd)
		require.NoError(t, err)
		assert.True(t, base.Equal(stored.CreatedAt))
		assert.True(t, upd.UpdatedAt.Equal(stored.UpdatedAt))

		got, err := repo.GetOwned(ctx, item.OwnerID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "t2", got.Title)
		assert.Equal(t, "u2", got.Username)
		assert.Equal(t, "p2", got.Password)
		assert.Equal(t, "url2", got.URL)
		assert.Equal(t, "", got.Notes)
	})

	t.Run("update of another owner's item is not found and changes nothing", func(t *testing.T) {
		repo := newRepo(t)
		item := newTestItem("owner-"+uuid.NewString(), base)
		require.NoError(t, repo.Create(ctx, item))

		upd := *item
		upd.OwnerID = "intruder"
		upd.Title = "pwned"
		_, err := repo.UpdateOwned(ctx, &upd)
		assert.ErrorIs(t, err, common.ErrorNotFound)

		got, err := repo.GetOwned(ctx, item.OwnerID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "ct-title", got.Title)
	})

	t.Run("update of missing item is not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.UpdateOwned(ctx, newTestItem("owner", base))
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		repo := newRepo(t)
		item := newTestItem("owner-"+uuid.NewString(), base)
		require.NoError(t, repo.Create(ctx, item))

		err := repo.DeleteOwned(ctx, "intruder", item.ID)
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = repo.GetOwned(ctx, item.OwnerID, item.ID)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteOwned(ctx, item.OwnerID, item.ID))

		_, err = repo.GetOwned(ctx, item.OwnerID, item.ID)
		assert.ErrorIs(t, err, common.ErrorNotFound)

		err = repo.DeleteOwned(ctx, item.OwnerID, item.ID)
		assert.ErrorIs(t, err, common.ErrorNotFound)

		got, err := repo.ListByOwner(ctx, item.OwnerID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
