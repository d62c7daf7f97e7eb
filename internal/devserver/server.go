// Package devserver is an in-memory implementation of the todo REST API,
// used by `todoctl serve` for local development and by end-to-end tests.
//
// Routes:
//
//	GET    /health
//	GET    /todos
//	POST   /todos       {"title": "..."}
//	PUT    /todos/{id}  {"title": "..."}
//	DELETE /todos/{id}
//
// When an API key is configured, every /todos request must present it,
// either as "Authorization: Bearer <key>" or in the configured header.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// Server serves a Store over HTTP.
type Server struct {
	store        *Store
	apiKey       string
	apiKeyHeader string
	logger       *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires key on every request. An empty header means bearer auth.
func WithAPIKey(key, header string) Option {
	return func(s *Server) {
		s.apiKey = key
		s.apiKeyHeader = header
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a server over store.
func New(store *Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.logRequests)

	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	todos := router.PathPrefix("/todos").Subrouter()
	todos.Use(s.requireAPIKey)
	todos.HandleFunc("", s.handleList).Methods("GET")
	todos.HandleFunc("", s.handleCreate).Methods("POST")
	todos.HandleFunc("/{id}", s.handleUpdate).Methods("PUT")
	todos.HandleFunc("/{id}", s.handleDelete).Methods("DELETE")

	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, allowing in-flight requests 5 seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	s.logger.Info("serving todo API", "addr", addr)

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	title, ok := decodeTitle(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusCreated, s.store.Create(title))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	title, ok := decodeTitle(w, r)
	if !ok {
		return
	}
	todo, found := s.store.Update(id, title)
	if !found {
		respondError(w, http.StatusNotFound, "todo not found")
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

// handleDelete succeeds whether or not the todo existed.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func decodeTitle(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		Title *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return "", false
	}
	return *body.Title, true
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && !s.authorized(r) {
			respondError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(r *http.Request) bool {
	if s.apiKeyHeader != "" {
		return r.Header.Get(s.apiKeyHeader) == s.apiKey
	}
	return r.Header.Get("Authorization") == "Bearer "+s.apiKey
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
