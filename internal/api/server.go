// Package api serves the board over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/tgienger/taskboard/internal/db"
)

// Server handles HTTP requests against a board database. Mutations are
// serialized so every move runs against the tree it loaded.
type Server struct {
	db *db.DB
	mu sync.Mutex
}

// NewServer creates a new Server.
func NewServer(database *db.DB) *Server {
	return &Server{db: database}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.RegisterRoutes(router.PathPrefix("/api").Subrouter())
	router.Use(logRequests)
	return router
}

// RegisterRoutes sets up all routes for the application.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tree", s.GetTree).Methods(http.MethodGet)
	router.HandleFunc("/containers", s.GetContainers).Methods(http.MethodGet)
	router.HandleFunc("/containers", s.CreateContainer).Methods(http.MethodPost)
	router.HandleFunc("/containers/{id}", s.RenameContainer).Methods(http.MethodPut)
	router.HandleFunc("/containers/{id}", s.DeleteContainer).Methods(http.MethodDelete)
	router.HandleFunc("/areas", s.CreateArea).Methods(http.MethodPost)
	router.HandleFunc("/areas/{id}", s.RenameArea).Methods(http.MethodPut)
	router.HandleFunc("/areas/{id}", s.DeleteArea).Methods(http.MethodDelete)
	router.HandleFunc("/projects", s.CreateProject).Methods(http.MethodPost)
	router.HandleFunc("/projects/{id}", s.DeleteProject).Methods(http.MethodDelete)
	router.HandleFunc("/tasks", s.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}", s.GetTask).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{id}", s.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{id}", s.DeleteTask).Methods(http.MethodDelete)
	router.HandleFunc("/tags", s.GetTags).Methods(http.MethodGet)
	router.HandleFunc("/move", s.Move).Methods(http.MethodPost)
}

// Run serves the API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("api: listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("api: %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps storage errors onto status codes
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("api: %v", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	return true
}
