package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/place-notes/internal/auth"
)

// apikeyHandlers lets a caller manage their own API keys.
type apikeyHandlers struct {
	apiKeys *auth.APIKeyStore
}

type apiKeyResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	KeyPrefix  string  `json:"key_prefix"`
	CreatedAt  string  `json:"created_at"`
	LastUsedAt *string `json:"last_used_at,omitempty"`
}

type apiKeyCreateResponse struct {
	Key    string         `json:"key"` // raw key, shown once
	APIKey apiKeyResponse `json:"api_key"`
}

func newAPIKeyResponse(k *auth.APIKey) apiKeyResponse {
	resp := apiKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		KeyPrefix: k.KeyPrefix,
		CreatedAt: k.CreatedAt.UTC().Format(time.RFC3339),
	}
	if k.LastUsedAt != nil {
		s := k.LastUsedAt.UTC().Format(time.RFC3339)
		resp.LastUsedAt = &s
	}
	return resp
}

// handleCreateKey generates a new API key for the caller.
func (h *apikeyHandlers) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = "API Key"
	}

	user := auth.UserFromContext(r.Context())
	rawKey, key, err := h.apiKeys.Create(name, user.ID)
	if err != nil {
		internalError(w, r, "creating api key", err)
		return
	}

	apiJSON(w, apiKeyCreateResponse{Key: rawKey, APIKey: newAPIKeyResponse(key)}, http.StatusCreated)
}

// handleListKeys returns the caller's API keys (without raw keys).
func (h *apikeyHandlers) handleListKeys(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	keys, err := h.apiKeys.List(user.ID)
	if err != nil {
		internalError(w, r, "listing api keys", err)
		return
	}

	resp := make([]apiKeyResponse, len(keys))
	for i := range keys {
		resp[i] = newAPIKeyResponse(&keys[i])
	}
	apiJSON(w, resp, http.StatusOK)
}

// handleDeleteKey revokes one of the caller's API keys.
func (h *apikeyHandlers) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "keyID", "key")
	if !ok {
		return
	}

	user := auth.UserFromContext(r.Context())
	if err := h.apiKeys.Delete(id, user.ID); err != nil {
		if errors.Is(err, auth.ErrKeyNotFound) {
			apiError(w, "key not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "deleting api key", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
