// Package server is the HTTP surface: media save/upload, task status and
// accounts.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	"github.com/Mystic-Slice/artist-recommendation-backend/database"
	"github.com/Mystic-Slice/artist-recommendation-backend/models"
	"github.com/Mystic-Slice/artist-recommendation-backend/pipeline"
	"github.com/Mystic-Slice/artist-recommendation-backend/queue"
	"github.com/Mystic-Slice/artist-recommendation-backend/storage"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Matcher resolves query requests into ranked results.
type Matcher interface {
	Query(ctx context.Context, req pipeline.QueryRequest) ([]models.SearchResult, error)
}

// TaskQueue is the queue surface the handlers need.
type TaskQueue interface {
	Enqueue(ctx context.Context, task queue.IngestTask) (string, error)
	GetTaskStatus(ctx context.Context, taskID string) (string, error)
	GetTaskResult(ctx context.Context, taskID string) (map[string]any, error)
}

// Server holds the injected collaborators and the running http.Server.
type Server struct {
	matcher Matcher
	tasks   TaskQueue
	blobs   storage.BlobStore
	users   database.UserStore
	cfg     config.Config
	logger  *zap.Logger

	// uploadsDir, when non-empty, is served under /uploads/ (local storage
	// backend only).
	uploadsDir string

	server *http.Server
}

func New(
	matcher Matcher,
	tasks TaskQueue,
	blobs storage.BlobStore,
	users database.UserStore,
	cfg config.Config,
	uploadsDir string,
	logger *zap.Logger,
) *Server {
	return &Server{
		matcher:    matcher,
		tasks:      tasks,
		blobs:      blobs,
		users:      users,
		cfg:        cfg,
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// Router builds the route table. Exposed separately so tests can drive it
// with httptest.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/save", s.handleSave).Methods("POST")
	r.HandleFunc("/upload", s.handleUpload).Methods("POST")
	r.HandleFunc("/tasks/{id}", s.handleTaskStatus).Methods("GET")
	r.HandleFunc("/api/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/api/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	if s.uploadsDir != "" {
		fs := http.FileServer(http.Dir(s.uploadsDir))
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", fs))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// Start runs the server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
