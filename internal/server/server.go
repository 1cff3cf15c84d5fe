package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/claude/gymflow/internal/storage"
	"github.com/claude/gymflow/internal/workout"
	"github.com/go-chi/chi/v5"
)

// Compile-time checks: the store satisfies the session core's collaborator
// contracts.
var (
	_ workout.Catalog  = (*storage.DB)(nil)
	_ workout.History  = (*storage.DB)(nil)
	_ workout.Settings = (*storage.DB)(nil)
)

// Server holds dependencies for HTTP handlers. It owns the single active
// session: the process supports exactly one workout at a time, and the
// mutex serializes the session's one mutator across handler goroutines.
type Server struct {
	db     *storage.DB
	health workout.HealthSink
	log    *slog.Logger
	apiKey string
	router chi.Router

	mu      sync.Mutex
	session *workout.Session
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the API open, for loopback-only dev use.
func New(db *storage.DB, health workout.HealthSink, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		health: health,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	if s.apiKey != "" {
		s.router.Use(APIKeyAuth(s.apiKey))
	}

	// Catalog
	s.router.Get("/api/v1/groups", s.handleListGroups)
	s.router.Get("/api/v1/groups/{group}/exercises", s.handleGroupExercises)
	s.router.Post("/api/v1/groups/{group}/exercises/{name}/weight", s.handleAdjustWeight)
	s.router.Post("/api/v1/groups/{group}/exercises/{name}/sets", s.handleAdjustSetCount)

	// Session lifecycle
	s.router.Post("/api/v1/session", s.handleStartSession)
	s.router.Get("/api/v1/session", s.handleSessionState)
	s.router.Delete("/api/v1/session", s.handleAbandonSession)
	s.router.Post("/api/v1/session/sets/toggle", s.handleToggleSet)
	s.router.Post("/api/v1/session/stretch/skip", s.handleSkipStretch)
	s.router.Post("/api/v1/session/cardio", s.handleCardioDecision)
	s.router.Post("/api/v1/session/cardio/end", s.handleEndCardio)

	// History
	s.router.Get("/api/v1/history", s.handleQueryHistory)
	s.router.Delete("/api/v1/history/{id}", s.handleDeleteHistory)

	// Settings
	s.router.Get("/api/v1/settings/last-group", s.handleLastGroup)
}
