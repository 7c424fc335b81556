// Package services contains server-side business logic. VaultService is the
// owner-scoped CRUD protocol for vault items: it validates input, encrypts
// every sensitive field before it reaches the repository and decrypts on the
// way out.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/logging"
	"github.com/RamaSai2519/secure-vault/internal/server/models"
	"github.com/RamaSai2519/secure-vault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// FieldCipher encrypts and decrypts single field values.
type FieldCipher interface {
	EncryptField(plaintext string) (string, error)
	DecryptField(ciphertext string) (string, error)
}

// VaultService provides vault item operations:
//   - List / Get: decrypt the caller's items
//   - Create: validate, encrypt and insert
//   - Update: whole-record replace of an owned item
//   - Delete: remove an owned item
//
// Items owned by someone else behave exactly like missing ones.
type VaultService struct {
	repomanager repomanager.RepositoryManager
	cipher      FieldCipher
	clock       clockwork.Clock
	log         logging.Logger
}

// NewVaultService constructs a VaultService. A nil clock means the real clock.
func NewVaultService(m repomanager.RepositoryManager, cipher FieldCipher, clock clockwork.Clock, log logging.Logger) *VaultService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &VaultService{
		repomanager: m,
		cipher:      cipher,
		clock:       clock,
		log:         log,
	}
}

// List returns the owner's items, most recently created first. An owner
// without items gets an empty, non-nil slice.
func (s *VaultService) List(ctx context.Context, ownerID string) ([]*models.PlainItem, error) {
	repo := s.repomanager.Items()

	stored, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}

	result := make([]*models.PlainItem, 0, len(stored))
	for _, item := range stored {
		plain, err := s.decryptItem(item)
		if err != nil {
			return nil, err
		}
		result = append(result, plain)
	}
	return result, nil
}

// Get returns one owned item.
func (s *VaultService) Get(ctx context.Context, ownerID, id string) (*models.PlainItem, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	item, err := s.repomanager.Items().GetOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.decryptItem(item)
}

// Create stores a new item for ownerID and returns its plaintext form.
func (s *VaultService) Create(ctx context.Context, ownerID string, in models.ItemInput) (*models.PlainItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	item, err := s.encryptInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item.ID = uuid.NewString()
	item.OwnerID = ownerID
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.repomanager.Items().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}

	s.log.Debug(ctx, "vault item created", "owner", ownerID, "item", item.ID)

	return plainEcho(item, in), nil
}

// Update replaces all editable fields of an owned item.
func (s *VaultService) Update(ctx context.Context, ownerID, id string, in models.ItemInput) (*models.PlainItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	item, err := s.encryptInput(in)
	if err != nil {
		return nil, err
	}
	item.ID = id
	item.OwnerID = ownerID
	item.UpdatedAt = s.now()

	stored, err := s.repomanager.Items().UpdateOwned(ctx, item)
	if err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "vault item updated", "owner", ownerID, "item", id)

	return plainEcho(stored, in), nil
}

// Delete removes an owned item.
func (s *VaultService) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	if err := s.repomanager.Items().DeleteOwned(ctx, ownerID, id); err != nil {
		return err
	}

	s.log.Debug(ctx, "vault item deleted", "owner", ownerID, "item", id)
	return nil
}

// --- helpers below ---

// now is truncated to microseconds, the precision of a Postgres timestamptz,
// so the echoed timestamps equal what a later read returns.
func (s *VaultService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validateInput(in models.ItemInput) error {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Username == "" {
		missing = append(missing, "username")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) == 0 {
		return nil
	}
	return common.NewValidationError(
		fmt.Sprintf("Title, username, and password are required (missing: %s)", strings.Join(missing, ", ")))
}

func (s *VaultService) encryptInput(in models.ItemInput) (*models.VaultItem, error) {
	item := &models.VaultItem{}

	fields := []struct {
		dst      *string
		value    string
		optional bool
	}{
		{&item.Title, in.Title, false},
		{&item.Username, in.Username, false},
		{&item.Password, in.Password, false},
		{&item.URL, in.URL, true},
		{&item.Notes, in.Notes, true},
	}

	for _, f := range fields {
		if f.optional && f.value == "" {
			continue
		}
		ct, err := s.cipher.EncryptField(f.value)
		if err != nil {
			return nil, fmt.Errorf("error encrypting field: %w", err)
		}
		*f.dst = ct
	}
	return item, nil
}

func (s *VaultService) decryptItem(item *models.VaultItem) (*models.PlainItem, error) {
	plain := &models.PlainItem{
		ID:        item.ID,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}

	fields := []struct {
		dst      *string
		value    string
		optional bool
	}{
		{&plain.Title, item.Title, false},
		{&plain.Username, item.Username, false},
		{&plain.Password, item.Password, false},
		{&plain.URL, item.URL, true},
		{&plain.Notes, item.Notes, true},
	}

	for _, f := range fields {
		if f.optional && f.value == "" {
			continue
		}
		pt, err := s.cipher.DecryptField(f.value)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		*f.dst = pt
	}
	return plain, nil
}

func plainEcho(item *models.VaultItem, in models.ItemInput) *models.PlainItem {
	return &models.PlainItem{
		ID:        item.ID,
		Title:     in.Title,
		Username:  in.Username,
		Password:  in.Password,
		URL:       in.URL,
		Notes:     in.Notes,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
