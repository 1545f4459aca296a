package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/place-notes/internal/auth"
	"github.com/evcraddock/place-notes/internal/comment"
	"github.com/evcraddock/place-notes/internal/place"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// internalError logs err and hides it from the caller.
func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err)
	apiError(w, "internal error", http.StatusInternalServerError)
}

// urlID parses a numeric chi URL parameter.
func urlID(w http.ResponseWriter, r *http.Request, param, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, "invalid "+what+" ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// apiGetMe returns the profile of the caller.
func (s *Server) apiGetMe(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, auth.UserFromContext(r.Context()), http.StatusOK)
}

// apiUpdateMe changes the caller's nickname and avatar.
func (s *Server) apiUpdateMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req struct {
		Nickname *string `json:"nickname"`
		Avatar   *string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	nickname, avatar := user.Nickname, user.Avatar
	if req.Nickname != nil {
		nickname = *req.Nickname
	}
	if req.Avatar != nil {
		avatar = *req.Avatar
	}
	if strings.TrimSpace(nickname) == "" {
		apiError(w, "nickname is required", http.StatusBadRequest)
		return
	}

	updated, err := s.users.UpdateProfile(user.ID, nickname, avatar)
	if err != nil {
		internalError(w, r, "updating profile", err)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

// apiListPlaces returns all places as JSON.
func (s *Server) apiListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := s.placeRepo.List()
	if err != nil {
		internalError(w, r, "listing places", err)
		return
	}
	apiJSON(w, places, http.StatusOK)
}

// apiAddPlace creates a place.
func (s *Server) apiAddPlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apiError(w, "name is required", http.StatusBadRequest)
		return
	}

	p, err := s.placeRepo.Insert(req.Name, req.Address)
	if err != nil {
		internalError(w, r, "adding place", err)
		return
	}
	apiJSON(w, p, http.StatusCreated)
}

// apiGetPlace returns a single place with its comments.
func (s *Server) apiGetPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "placeID", "place")
	if !ok {
		return
	}

	p, err := s.placeRepo.GetByID(id)
	if errors.Is(err, place.ErrNotFound) {
		apiError(w, "place not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "loading place", err)
		return
	}

	comments, err := s.commentRepo.ListByPlaceID(id)
	if err != nil {
		internalError(w, r, "loading comments", err)
		return
	}

	type response struct {
		Place    *place.Place      `json:"place"`
		Comments []comment.Comment `json:"comments"`
	}
	apiJSON(w, response{Place: p, Comments: comments}, http.StatusOK)
}

// apiDeletePlace removes a place and its comments.
func (s *Server) apiDeletePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "placeID", "place")
	if !ok {
		return
	}

	if err := s.placeRepo.Delete(id); err != nil {
		if errors.Is(err, place.ErrNotFound) {
			apiError(w, "place not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "deleting place", err)
		return
	}
	apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
}

// apiListComments returns the comments of a place, oldest first.
func (s *Server) apiListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "placeID", "place")
	if !ok {
		return
	}

	comments, err := s.commentRepo.ListByPlaceID(id)
	if err != nil {
		internalError(w, r, "loading comments", err)
		return
	}
	apiJSON(w, comments, http.StatusOK)
}

// apiAddComment adds a comment by the caller to a place. The author's
// nickname and avatar come from the stored profile, not the request.
func (s *Server) apiAddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "placeID", "place")
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())

	var req comment.Draft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if comment.IsBlank(req.Text) {
		apiError(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.UserID != 0 && req.UserID != user.ID {
		apiError(w, "cannot comment as another user", http.StatusForbidden)
		return
	}

	if _, err := s.placeRepo.GetByID(id); err != nil {
		if errors.Is(err, place.ErrNotFound) {
			apiError(w, "place not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "loading place", err)
		return
	}

	c, err := s.commentRepo.Add(id, user.ID, req.Text)
	if err != nil {
		internalError(w, r, "adding comment", err)
		return
	}
	apiJSON(w, c, http.StatusCreated)
}

// authoredComment loads the comment named in the URL and checks that the
// caller wrote it. It writes the error response itself.
func (s *Server) authoredComment(w http.ResponseWriter, r *http.Request) (*comment.Comment, bool) {
	id, ok := urlID(w, r, "commentID", "comment")
	if !ok {
		return nil, false
	}

	c, err := s.commentRepo.GetByID(id)
	if errors.Is(err, comment.ErrNotFound) {
		apiError(w, "comment not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		internalError(w, r, "loading comment", err)
		return nil, false
	}

	if user := auth.UserFromContext(r.Context()); c.UserID != user.ID {
		apiError(w, "only the author can change this comment", http.StatusForbidden)
		return nil, false
	}
	return c, true
}

// apiUpdateComment replaces the text of the caller's comment.
func (s *Server) apiUpdateComment(w http.ResponseWriter, r *http.Request) {
	c, ok := s.authoredComment(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	updated, err := s.commentRepo.UpdateText(c.ID, req.Text)
	if errors.Is(err, comment.ErrBlankText) {
		apiError(w, "text is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, "updating comment", err)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

// apiDeleteComment removes the caller's comment.
func (s *Server) apiDeleteComment(w http.ResponseWriter, r *http.Request) {
	c, ok := s.authoredComment(w, r)
	if !ok {
		return
	}

	if err := s.commentRepo.Delete(c.ID); err != nil {
		if errors.Is(err, comment.ErrNotFound) {
			apiError(w, "comment not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "deleting comment", err)
		return
	}
	apiJSON(w, map[string]interface{}{"id": c.ID, "deleted": true}, http.StatusOK)
}
