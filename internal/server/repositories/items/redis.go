package items

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/server/models"
	goredis "github.com/redis/go-redis/v9"
)

// Hash fields of an item record.
const (
	fieldOwnerID   = "owner_id"
	fieldTitle     = "title"
	fieldUsername  = "username"
	fieldPassword  = "password"
	fieldURL       = "url"
	fieldNotes     = "notes"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// createScript writes a new item hash and its owner index entry together.
// Returns 0 without writing when the id is already taken.
// KEYS: [1]=item key, [2]=owner index key
// ARGV: [1]=id, [2]=owner, [3]=title, [4]=username, [5]=password, [6]=url,
// [7]=notes, [8]=created_at, [9]=updated_at, [10]=index score
var createScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1],
	'owner_id', ARGV[2], 'title', ARGV[3], 'username', ARGV[4], 'password', ARGV[5],
	'url', ARGV[6], 'notes', ARGV[7], 'created_at', ARGV[8], 'updated_at', ARGV[9])
redis.call('ZADD', KEYS[2], ARGV[10], ARGV[1])
return 1
`)

// updateOwnedScript replaces the encrypted fields of an item only when its
// owner matches. Returns the stored created_at, or false when nothing matched.
// KEYS: [1]=item key
// ARGV: [1]=owner, [2]=title, [3]=username, [4]=password, [5]=url, [6]=notes, [7]=updated_at
var updateOwnedScript = goredis.NewScript(`
if redis.call('HGET', KEYS[1], 'owner_id') ~= ARGV[1] then
	return false
end
redis.call('HSET', KEYS[1],
	'title', ARGV[2], 'username', ARGV[3], 'password', ARGV[4],
	'url', ARGV[5], 'notes', ARGV[6], 'updated_at', ARGV[7])
return redis.call('HGET', KEYS[1], 'created_at')
`)

// deleteOwnedScript removes an item and its owner index entry only when the
// owner matches. Returns 1 on delete, 0 otherwise.
// KEYS: [1]=item key, [2]=owner index key
// ARGV: [1]=owner, [2]=item id
var deleteOwnedScript = goredis.NewScript(`
if redis.call('HGET', KEYS[1], 'owner_id') ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[2])
return 1
`)

// RedisRepository stores each item as a hash and keeps a per-owner sorted
// set of item ids scored by creation time.
type RedisRepository struct {
	rdb goredis.UniversalClient
}

var _ Repository = (*RedisRepository)(nil)

func NewRedisRepository(rdb goredis.UniversalClient) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func itemKey(id string) string {
	return "vault:item:" + id
}

func ownerIndexKey(ownerID string) string {
	return "vault:owner:" + ownerID + ":items"
}

func formatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func parseTime(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.Unix(0, n).UTC(), nil
}

func (r *RedisRepository) Create(ctx context.Context, item *models.VaultItem) error {
	ok, err := createScript.Run(ctx, r.rdb, []string{itemKey(item.ID), ownerIndexKey(item.OwnerID)},
		item.ID, item.OwnerID, item.Title, item.Username, item.Password, item.URL, item.Notes,
		formatTime(item.CreatedAt), formatTime(item.UpdatedAt), item.CreatedAt.UnixMilli(),
	).Int()
	if err != nil {
		return fmt.Errorf("create script failed: %w", err)
	}
	if ok == 0 {
		return fmt.Errorf("duplicate item id %s", item.ID)
	}
	return nil
}

func (r *RedisRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultItem, error) {
	ids, err := r.rdb.ZRevRange(ctx, ownerIndexKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}

	result := make([]*models.VaultItem, 0, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	_, err = r.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, itemKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		// Deleted between the index read and the pipeline.
		if len(fields) == 0 || fields[fieldOwnerID] != ownerID {
			continue
		}
		item, err := decodeItem(ids[i], fields)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *RedisRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.VaultItem, error) {
	fields, err := r.rdb.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 || fields[fieldOwnerID] != ownerID {
		return nil, common.ErrorNotFound
	}
	return decodeItem(id, fields)
}

func (r *RedisRepository) UpdateOwned(ctx context.Context, item *models.VaultItem) (*models.VaultItem, error) {
	res, err := updateOwnedScript.Run(ctx, r.rdb, []string{itemKey(item.ID)},
		item.OwnerID, item.Title, item.Username, item.Password, item.URL, item.Notes,
		formatTime(item.UpdatedAt),
	).Text()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("update script failed: %w", err)
	}

	createdAt, err := parseTime(res)
	if err != nil {
		return nil, err
	}

	stored := *item
	stored.CreatedAt = createdAt
	return &stored, nil
}

func (r *RedisRepository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	n, err := deleteOwnedScript.Run(ctx, r.rdb, []string{itemKey(id), ownerIndexKey(ownerID)}, ownerID, id).Int()
	if err != nil {
		return fmt.Errorf("delete script failed: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func decodeItem(id string, fields map[string]string) (*models.VaultItem, error) {
	createdAt, err := parseTime(fields[fieldCreatedAt])
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(fields[fieldUpdatedAt])
	if err != nil {
		return nil, err
	}

	return &models.VaultItem{
		ID:        id,
		OwnerID:   fields[fieldOwnerID],
		Title:     fields[fieldTitle],
		Username:  fields[fieldUsername],
		Password:  fields[fieldPassword],
		URL:       fields[fieldURL],
		Notes:     fields[fieldNotes],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
