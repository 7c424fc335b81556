package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/dbx"
	"github.com/RamaSai2519/secure-vault/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new item.
func (r *PostgresRepository) Create(ctx context.Context, item *models.VaultItem) error {
	query := `
		INSERT INTO vault_items (id, owner_id, title, username, password, url, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.OwnerID, item.Title, item.Username, item.Password, item.URL, item.Notes,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's items, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultItem, error) {
	query := `
		SELECT id, owner_id, title, username, password, url, notes, created_at, updated_at
		FROM vault_items
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	result := make([]*models.VaultItem, 0)
	for rows.Next() {
		var item models.VaultItem
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Username, &item.Password,
			&item.URL, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetOwned loads one item by id and owner.
func (r *PostgresRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.VaultItem, error) {
	query := `
		SELECT id, owner_id, title, username, password, url, notes, created_at, updated_at
		FROM vault_items
		WHERE id = $1 AND owner_id = $2
	`
	var item models.VaultItem
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Username, &item.Password,
		&item.URL, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// UpdateOwned rewrites the encrypted fields in one conditional UPDATE.
func (r *PostgresRepository) UpdateOwned(ctx context.Context, item *models.VaultItem) (*models.VaultItem, error) {
	query := `
		UPDATE vault_items
		SET title = $3, username = $4, password = $5, url = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`
	stored := *item
	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.OwnerID, item.Title, item.Username, item.Password, item.URL, item.Notes, item.UpdatedAt,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &stored, nil
}

// DeleteOwned removes the item in one conditional DELETE.
func (r *PostgresRepository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM vault_items WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
