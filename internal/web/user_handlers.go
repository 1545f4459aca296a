package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/evcraddock/place-notes/internal/auth"
)

// userHandlers manages registered users (admin-only).
type userHandlers struct {
	users   *auth.UserStore
	apiKeys *auth.APIKeyStore
	isAdmin func(*auth.User) bool
}

// requireAdmin writes 403 unless the caller is the admin.
func (h *userHandlers) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !h.isAdmin(auth.UserFromContext(r.Context())) {
		apiError(w, "admin access required", http.StatusForbidden)
		return false
	}
	return true
}

func (h *userHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	users, err := h.users.List()
	if err != nil {
		internalError(w, r, "listing users", err)
		return
	}
	apiJSON(w, users, http.StatusOK)
}

// addUser registers a user and issues their first API key.
func (h *userHandlers) addUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		apiError(w, "email is required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Add(req.Email, req.Nickname, req.Avatar)
	if errors.Is(err, auth.ErrUserExists) {
		apiError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		internalError(w, r, "adding user", err)
		return
	}

	rawKey, _, err := h.apiKeys.Create("default", user.ID)
	if err != nil {
		internalError(w, r, "creating api key", err)
		return
	}

	apiJSON(w, map[string]interface{}{"user": user, "key": rawKey}, http.StatusCreated)
}

func (h *userHandlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, ok := urlID(w, r, "userID", "user")
	if !ok {
		return
	}

	if err := h.users.Delete(id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			apiError(w, "user not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "deleting user", err)
		return
	}
	apiJSON(w, map[string]interface{}{"id": id, "deleted": true}, http.StatusOK)
}
