package rest

import (
	"encoding/json"
	"net/http"

	"github.com/RamaSai2519/secure-vault/internal/passgen"
)

// GenerateRequest uses pointers so an omitted option falls back to its
// default instead of false.
type GenerateRequest struct {
	Length            *int  `json:"length"`
	IncludeNumbers    *bool `json:"includeNumbers"`
	IncludeLetters    *bool `json:"includeLetters"`
	IncludeSymbols    *bool `json:"includeSymbols"`
	ExcludeLookAlikes *bool `json:"excludeLookAlikes"`
}

type GenerateResponse struct {
	Password string `json:"password"`
}

func (req GenerateRequest) options() passgen.Options {
	opts := passgen.DefaultOptions(*req.Length)
	if req.IncludeNumbers != nil {
		opts.IncludeNumbers = *req.IncludeNumbers
	}
	if req.IncludeLetters != nil {
		opts.IncludeLetters = *req.IncludeLetters
	}
	if req.IncludeSymbols != nil {
		opts.IncludeSymbols = *req.IncludeSymbols
	}
	if req.ExcludeLookAlikes != nil {
		opts.ExcludeLookAlikes = *req.ExcludeLookAlikes
	}
	return opts
}

// GeneratePassword answers POST /generate-password. It needs no credential.
func (h *Handler) GeneratePassword(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if req.Length == nil || *req.Length < passgen.MinLength || *req.Length > passgen.MaxLength {
		writeErrorMessage(w, http.StatusBadRequest, msgLengthOutRange)
		return
	}

	password, err := passgen.Generate(req.options())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Password: password})
}
