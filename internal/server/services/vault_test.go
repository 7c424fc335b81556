package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/cryptox"
	"github.com/RamaSai2519/secure-vault/internal/logging"
	"github.com/RamaSai2519/secure-vault/internal/server/models"
	"github.com/RamaSai2519/secure-vault/internal/server/repositories/items"
	"github.com/RamaSai2519/secure-vault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newCipher(t *testing.T, fill byte) *cryptox.FieldCipher {
	t.Helper()
	key := make([]byte, cryptox.KeySize)
	for i := range key {
		key[i] = fill
	}
	c, err := cryptox.NewFieldCipher(key)
	require.NoError(t, err)
	return c
}

func newVaultService(t *testing.T) (*VaultService, repomanager.RepositoryManager, *clockwork.FakeClock) {
	t.Helper()
	rm := repomanager.NewInMemoryRepositoryManager()
	clock := clockwork.NewFakeClockAt(t0)
	return NewVaultService(rm, newCipher(t, 7), clock, logging.Discard()), rm, clock
}

func gmailInput() models.ItemInput {
	return models.ItemInput{Title: "Gmail", Username: "a@x.com", Password: "p1", URL: "https://mail.google.com"}
}

// spyManager counts repository calls and can inject failures.
type spyManager struct {
	repomanager.RepositoryManager
	repo *spyRepo
}

func (m *spyManager) Items() items.Repository { return m.repo }

type spyRepo struct {
	items.Repository
	calls   int
	listErr error
	listOut []*models.VaultItem
}

func (r *spyRepo) Create(ctx context.Context, item *models.VaultItem) error {
	r.calls++
	return r.Repository.Create(ctx, item)
}

func (r *spyRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultItem, error) {
	r.calls++
	if r.listErr != nil || r.listOut != nil {
		return r.listOut, r.listErr
	}
	return r.Repository.ListByOwner(ctx, ownerID)
}

func (r *spyRepo) UpdateOwned(ctx context.Context, item *models.VaultItem) (*models.VaultItem, error) {
	r.calls++
	return r.Repository.UpdateOwned(ctx, item)
}

func (r *spyRepo) DeleteOwned(ctx context.Context, ownerID, id string) error {
	r.calls++
	return r.Repository.DeleteOwned(ctx, ownerID, id)
}

func (r *spyRepo) GetOwned(ctx context.Context, ownerID, id string) (*models.VaultItem, error) {
	r.calls++
	return r.Repository.GetOwned(ctx, ownerID, id)
}

func newSpyService(t *testing.T) (*VaultService, *spyRepo) {
	t.Helper()
	spy := &spyRepo{Repository: items.NewMemoryRepository()}
	rm := &spyManager{RepositoryManager: repomanager.NewInMemoryRepositoryManager(), repo: spy}
	return NewVaultService(rm, newCipher(t, 7), clockwork.NewFakeClockAt(t0), logging.Discard()), spy
}

// --- create ---

func TestCreate_EchoesPlaintextAndStoresCiphertext(t *testing.T) {
	svc, rm, _ := newVaultService(t)
	ctx := context.Background()

	got, err := svc.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)

	_, err = uuid.Parse(got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gmail", got.Title)
	assert.Equal(t, "a@x.com", got.Username)
	assert.Equal(t, "p1", got.Password)
	assert.Equal(t, "https://mail.google.com", got.URL)
	assert.Equal(t, "", got.Notes)
	assert.Equal(t, t0, got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)

	stored, err := rm.Items().GetOwned(ctx, "u1", got.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.OwnerID)
	for _, v := range []string{stored.Title, stored.Username, stored.Password, stored.URL} {
		assert.True(t, strings.HasPrefix(v, "v1."), "field must be ciphertext: %q", v)
	}
	assert.NotContains(t, stored.Password, "p1")
	assert.Equal(t, "", stored.Notes, "absent optional field stays empty")
}

func TestCreate_ValidationCreatesNothing(t *testing.T) {
	tests := []struct {
		name    string
		in      models.ItemInput
		missing string
	}{
		{name: "no password", in: models.ItemInput{Title: "Gmail", Username: "a@x.com"}, missing: "password"},
		{name: "no title", in: models.ItemInput{Username: "a", Password: "p"}, missing: "title"},
		{name: "no username", in: models.ItemInput{Title: "t", Password: "p"}, missing: "username"},
		{name: "empty", in: models.ItemInput{}, missing: "title, username, password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, spy := newSpyService(t)

			_, err := svc.Create(context.Background(), "u1", tt.in)
			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Contains(t, err.Error(), tt.missing)
			assert.Equal(t, 0, spy.calls, "store must not be touched")
		})
	}
}

// --- list / get ---

func TestList_NewestFirstAndOwnerScoped(t *testing.T) {
	svc, _, clock := newVaultService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := svc.Create(ctx, "u1", models.ItemInput{Title: "Bank", Username: "b", Password: "p2", Notes: "pin 1234"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", models.ItemInput{Title: "Other", Username: "c", Password: "p3"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "pin 1234", list[0].Notes)
	assert.Equal(t, "p1", list[1].Password)
	assert.Equal(t, "", list[1].Notes)
}

func TestList_EmptyOwnerReturnsEmptySlice(t *testing.T) {
	svc, _, _ := newVaultService(t)

	list, err := svc.List(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Empty(t, list)
}

func TestList_DecryptionFailurePropagates(t *testing.T) {
	svc, spy := newSpyService(t)
	spy.listOut = []*models.VaultItem{{ID: "x", Title: "v1.garbage", Username: "v1.garbage", Password: "v1.garbage"}}

	_, err := svc.List(context.Background(), "u1")
	require.ErrorIs(t, err, common.ErrDecryptionFailure)
}

func TestList_WrongKeyIsDecryptionFailure(t *testing.T) {
	rm := repomanager.NewInMemoryRepositoryManager()
	writer := NewVaultService(rm, newCipher(t, 1), nil, logging.Discard())
	reader := NewVaultService(rm, newCipher(t, 2), nil, logging.Discard())
	ctx := context.Background()

	_, err := writer.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)

	_, err = reader.List(ctx, "u1")
	require.ErrorIs(t, err, common.ErrDecryptionFailure)
}

func TestList_RepositoryErrorPropagates(t *testing.T) {
	svc, spy := newSpyService(t)
	boom := errors.New("db down")
	spy.listErr = boom

	_, err := svc.List(context.Background(), "u1")
	require.ErrorIs(t, err, boom)
}

func TestGet(t *testing.T) {
	svc, _, _ := newVaultService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(ctx, "u2", created.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.Get(ctx, "u1", "not-a-uuid")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

// --- update ---

func TestUpdate_ReplacesAllFieldsAndBumpsUpdatedAt(t *testing.T) {
	svc, _, clock := newVaultService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, err := svc.Update(ctx, "u1", created.ID, models.ItemInput{Title: "Gmail", Username: "a@x.com", Password: "p2"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "p2", updated.Password)
	assert.Equal(t, "", updated.URL, "whole-record replace clears url")
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, t0.Add(time.Minute), updated.UpdatedAt)

	got, err := svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdate_OtherOwnerIsNotFoundAndUnchanged(t *testing.T) {
	svc, _, _ := newVaultService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u2", created.ID, models.ItemInput{Title: "x", Username: "y", Password: "z"})
	require.ErrorIs(t, err, common.ErrorNotFound)

	got, err := svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", got.Password)
}

func TestUpdate_Errors(t *testing.T) {
	svc, spy := newSpyService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", uuid.NewString(), models.ItemInput{Title: "x", Username: "y"})
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, 0, spy.calls)

	_, err = svc.Update(ctx, "u1", "123", models.ItemInput{Title: "x", Username: "y", Password: "z"})
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 0, spy.calls, "invalid id never reaches the store")

	_, err = svc.Update(ctx, "u1", uuid.NewString(), models.ItemInput{Title: "x", Username: "y", Password: "z"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

// --- delete ---

func TestDelete(t *testing.T) {
	svc, _, _ := newVaultService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "u2", created.ID), common.ErrorNotFound)

	require.NoError(t, svc.Delete(ctx, "u1", created.ID))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.ErrorIs(t, svc.Delete(ctx, "u1", created.ID), common.ErrorNotFound, "second delete")
	require.ErrorIs(t, svc.Delete(ctx, "u1", "nope"), common.ErrorNotFound)
}

func TestTimestampsTruncatedToMicroseconds(t *testing.T) {
	rm := repomanager.NewInMemoryRepositoryManager()
	clock := clockwork.NewFakeClockAt(t0.Add(1234567 * time.Nanosecond))
	svc := NewVaultService(rm, newCipher(t, 7), clock, logging.Discard())
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", gmailInput())
	require.NoError(t, err)
	assert.Equal(t, t0.Add(1234*time.Microsecond), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	clock.Advance(999 * time.Nanosecond)
	updated, err := svc.Update(ctx, "u1", created.ID, gmailInput())
	require.NoError(t, err)
	assert.Equal(t, t0.Add(1235*time.Microsecond), updated.UpdatedAt)
}
