package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/logging"
	"github.com/RamaSai2519/secure-vault/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// Client-facing messages. Internal detail never leaves the server.
const (
	msgUnauthorized   = "Unauthorized"
	msgNotFound       = "Vault item not found"
	msgInternal       = "Internal server error"
	msgInvalidBody    = "invalid request body"
	msgLengthOutRange = "Length must be between 4 and 128 characters"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeError is the single place where service errors become HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	var ve *common.ValidationError

	switch {
	case auth.IsAuthError(err):
		writeErrorMessage(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.As(err, &ve):
		writeErrorMessage(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, common.ErrorValidation):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeErrorMessage(w, http.StatusNotFound, msgNotFound)
	default:
		log.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		writeErrorMessage(w, http.StatusInternalServerError, msgInternal)
	}
}
