package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openlift/liftlog/internal/models"
	"github.com/openlift/liftlog/internal/workout"
)

// exerciseResponse is a catalog entry plus its synthetic seed history. Seed
// points exist so charts have content before any real session is saved;
// they are kept apart from the derived history endpoint and must never be
// merged with it.
type exerciseResponse struct {
	models.ExerciseDefinition
	SeedHistory []models.HistoryPoint `json:"seedHistory"`
}

type startWorkoutRequest struct {
	ExerciseIDs []string `json:"exerciseIds"`
}

type addSetRequest struct {
	ExerciseID string    `json:"exerciseId"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	Date       time.Time `json:"date"`
}

type updateSetRequest struct {
	Weight *float64 `json:"weight"`
	Reps   *int     `json:"reps"`
}

type setWorkoutDateRequest struct {
	Date time.Time `json:"date"`
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	defs := s.catalog.List()
	out := make([]exerciseResponse, len(defs))
	for i, def := range defs {
		out[i] = exerciseResponse{
			ExerciseDefinition: def,
			SeedHistory:        s.catalog.SeedHistory(def.ID),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, ok := s.catalog.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, exerciseResponse{
		ExerciseDefinition: def,
		SeedHistory:        s.catalog.SeedHistory(def.ID),
	})
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.catalog.Lookup(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}

	points := s.store.GetExerciseHistory(id)
	if points == nil {
		points = []models.HistoryPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleExerciseStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.catalog.Lookup(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.ExerciseStats(id))
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.History())
}

func (s *Server) handleActiveWorkout(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.ActiveSession()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active workout"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req startWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.ExerciseIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exerciseIds must not be empty"})
		return
	}

	session, err := s.store.StartSession(req.ExerciseIDs)
	if err != nil {
		s.writeStoreError(w, "start workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleSetWorkoutDate(w http.ResponseWriter, r *http.Request) {
	var req setWorkoutDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Date.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	if err := s.store.SetSessionDate(req.Date); err != nil {
		s.writeStoreError(w, "set workout date", err)
		return
	}
	session, _ := s.store.ActiveSession()
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	var req addSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exerciseId is required"})
		return
	}
	if req.Weight < 0 || req.Reps < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight and reps must be non-negative"})
		return
	}

	entry, err := s.store.AddSet(req.ExerciseID, req.Weight, req.Reps, req.Date)
	if err != nil {
		s.writeStoreError(w, "add set", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	exerciseID := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return
	}

	var req updateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Weight == nil && req.Reps == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}
	if req.Weight != nil && *req.Weight < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight must be non-negative"})
		return
	}
	if req.Reps != nil && *req.Reps < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps must be non-negative"})
		return
	}

	entry, err := s.store.UpdateSet(exerciseID, index, req.Weight, req.Reps)
	if err != nil {
		s.writeStoreError(w, "update set", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleSaveWorkout(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.SaveSession(r.Context())
	if err != nil {
		s.writeStoreError(w, "save workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleDiscardWorkout(w http.ResponseWriter, r *http.Request) {
	s.store.DiscardSession()
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps store errors to HTTP statuses: missing things are
// 404, state conflicts are 409, anything else (repository failures) is 500.
func (s *Server) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, workout.ErrNotFound), errors.Is(err, workout.ErrSetIndexOutOfRange):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, workout.ErrNoActiveSession), errors.Is(err, workout.ErrSessionActive):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.log.Error(op+" failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
