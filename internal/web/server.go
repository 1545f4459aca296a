// Package web provides the HTTP server and JSON handlers for the
// place-notes API.
package web

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evcraddock/place-notes/internal/auth"
	"github.com/evcraddock/place-notes/internal/comment"
	"github.com/evcraddock/place-notes/internal/logging"
	"github.com/evcraddock/place-notes/internal/place"
)

// Server is the API HTTP server.
type Server struct {
	placeRepo   *place.Repository
	commentRepo *comment.Repository
	users       *auth.UserStore
	apiKeys     *auth.APIKeyStore
	cfg         auth.Config
	router      chi.Router
}

// NewServer creates a server backed by db.
func NewServer(db *sql.DB, cfg auth.Config) *Server {
	s := &Server{
		placeRepo:   place.NewRepository(db),
		commentRepo: comment.NewRepository(db),
		users:       auth.NewUserStore(db),
		apiKeys:     auth.NewAPIKeyStore(db),
		cfg:         cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	keys := &apikeyHandlers{apiKeys: s.apiKeys}
	users := &userHandlers{users: s.users, apiKeys: s.apiKeys, isAdmin: s.isAdmin}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAPIKey(s.apiKeys, s.users))

		r.Get("/me", s.apiGetMe)
		r.Patch("/me", s.apiUpdateMe)

		r.Route("/places", func(r chi.Router) {
			r.Get("/", s.apiListPlaces)
			r.Post("/", s.apiAddPlace)
			r.Route("/{placeID}", func(r chi.Router) {
				r.Get("/", s.apiGetPlace)
				r.Delete("/", s.apiDeletePlace)
				r.Get("/comments", s.apiListComments)
				r.Post("/comments", s.apiAddComment)
			})
		})

		r.Route("/comments/{commentID}", func(r chi.Router) {
			r.Patch("/", s.apiUpdateComment)
			r.Delete("/", s.apiDeleteComment)
		})

		r.Route("/keys", func(r chi.Router) {
			r.Get("/", keys.handleListKeys)
			r.Post("/", keys.handleCreateKey)
			r.Delete("/{keyID}", keys.handleDeleteKey)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.listUsers)
			r.Post("/", users.addUser)
			r.Delete("/{userID}", users.deleteUser)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting server", "addr", addr, "base_url", s.cfg.BaseURL, "dev_mode", s.cfg.DevMode)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// isAdmin reports whether u is the configured admin.
func (s *Server) isAdmin(u *auth.User) bool {
	return u != nil && s.cfg.AdminEmail != "" && strings.EqualFold(u.Email, s.cfg.AdminEmail)
}
