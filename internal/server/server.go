package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openlift/liftlog/internal/catalog"
	"github.com/openlift/liftlog/internal/workout"
)

// Server holds dependencies for HTTP handlers. It is the boundary the
// presentation layer (mobile or web client) talks to; all session state
// lives in the workout store behind it.
type Server struct {
	catalog  *catalog.Catalog
	store    *workout.Store
	analyzer *workout.Analyzer
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(cat *catalog.Catalog, store *workout.Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		catalog:  cat,
		store:    store,
		analyzer: workout.NewAnalyzer(store),
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
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

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read endpoints
		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/exercises/{id}/history", s.handleExerciseHistory)
		r.Get("/exercises/{id}/stats", s.handleExerciseStats)
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/active", s.handleActiveWorkout)

		// Mutations (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/workouts", s.handleStartWorkout)
			r.Patch("/workouts/active", s.handleSetWorkoutDate)
			r.Post("/workouts/active/sets", s.handleAddSet)
			r.Patch("/workouts/active/exercises/{id}/sets/{index}", s.handleUpdateSet)
			r.Post("/workouts/active/save", s.handleSaveWorkout)
			r.Delete("/workouts/active", s.handleDiscardWorkout)
		})
	})
}

// SetMCP mounts an MCP transport handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}
