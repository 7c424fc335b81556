package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/logging"
	"github.com/RamaSai2519/secure-vault/internal/server/auth"
	"github.com/RamaSai2519/secure-vault/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// VaultService is the owner-scoped item protocol the handlers delegate to.
type VaultService interface {
	List(ctx context.Context, ownerID string) ([]*models.PlainItem, error)
	Get(ctx context.Context, ownerID, id string) (*models.PlainItem, error)
	Create(ctx context.Context, ownerID string, in models.ItemInput) (*models.PlainItem, error)
	Update(ctx context.Context, ownerID, id string, in models.ItemInput) (*models.PlainItem, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the vault and health endpoints.
type Handler struct {
	vault  VaultService
	pinger Pinger
	log    logging.Logger
}

// NewHandler builds a Handler. pinger may be nil, in which case /health
// always reports ok.
func NewHandler(vault VaultService, pinger Pinger, log logging.Logger) *Handler {
	return &Handler{vault: vault, pinger: pinger, log: log}
}

// Health answers GET /health, pinging storage when a Pinger is set.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.log.Warn(r.Context(), "storage ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListItems answers GET /vault with the caller's items, newest first.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	list, err := h.vault.List(r.Context(), owner)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if list == nil {
		list = []*models.PlainItem{}
	}

	writeJSON(w, http.StatusOK, list)
}

// GetItem answers GET /vault/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	item, err := h.vault.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// CreateItem answers POST /vault with 201 and the stored item.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var in models.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	item, err := h.vault.Create(r.Context(), owner, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem answers PUT /vault/{id} with a whole-record replace.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var in models.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	item, err := h.vault.Update(r.Context(), owner, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// DeleteItem answers DELETE /vault/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.vault.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Vault item deleted successfully"})
}

// owner returns the authenticated user id, answering 401 itself when the
// route was mounted without Authenticate.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, common.ErrMissingCredential)
		return "", false
	}
	return id.UserID, true
}
