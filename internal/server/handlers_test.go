package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openlift/liftlog/internal/catalog"
	"github.com/openlift/liftlog/internal/models"
	"github.com/openlift/liftlog/internal/workout"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalog.New()
	store := workout.NewStore(cat, nil, log)
	return New(cat, store, testAPIKey, log)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

// TestListExercises verifies the catalog endpoint returns all definitions
// with seed history attached.
func TestListExercises(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/exercises", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	exercises := decode[[]exerciseResponse](t, rec)
	if len(exercises) != 6 {
		t.Fatalf("len(exercises) = %d, want 6", len(exercises))
	}
	for _, ex := range exercises {
		if ex.ID == "" || ex.Name == "" {
			t.Errorf("exercise missing id or name: %+v", ex.ExerciseDefinition)
		}
		if len(ex.SeedHistory) != 10 {
			t.Errorf("exercise %s seedHistory = %d points, want 10", ex.ID, len(ex.SeedHistory))
		}
	}
}

// TestGetExerciseNotFound verifies 404 for unknown IDs.
func TestGetExerciseNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/exercises/nonexistent", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestWorkoutLifecycle drives a full session over HTTP: start, log sets,
// edit one, save, then read derived history.
func TestWorkoutLifecycle(t *testing.T) {
	s := newTestServer(t)

	// No active workout yet.
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/active", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("active before start: status = %d, want 404", rec.Code)
	}

	// Start.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", startWorkoutRequest{ExerciseIDs: []string{"bench-press"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: status = %d, body %s", rec.Code, rec.Body)
	}

	// Derived history stays empty while the session is active.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/exercises/bench-press/history", nil)
	if pts := decode[[]models.HistoryPoint](t, rec); len(pts) != 0 {
		t.Fatalf("history before save = %d points, want 0", len(pts))
	}

	// Log two sets.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts/active/sets",
		addSetRequest{ExerciseID: "bench-press", Weight: 185, Reps: 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add set: status = %d, body %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts/active/sets",
		addSetRequest{ExerciseID: "bench-press", Weight: 190, Reps: 8})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add set: status = %d, body %s", rec.Code, rec.Body)
	}

	// Bump the second set's weight.
	weight := 195.0
	rec = doJSON(t, s, http.MethodPatch, "/api/v1/workouts/active/exercises/bench-press/sets/1",
		updateSetRequest{Weight: &weight})
	if rec.Code != http.StatusOK {
		t.Fatalf("update set: status = %d, body %s", rec.Code, rec.Body)
	}
	if entry := decode[models.SetEntry](t, rec); entry.Weight != 195 || entry.Reps != 8 {
		t.Errorf("updated set = %v/%d, want 195/8", entry.Weight, entry.Reps)
	}

	// Save.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts/active/save", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: status = %d, body %s", rec.Code, rec.Body)
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/active", nil); rec.Code != http.StatusNotFound {
		t.Errorf("active after save: status = %d, want 404", rec.Code)
	}

	// Derived history reflects the saved session.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/exercises/bench-press/history", nil)
	points := decode[[]models.HistoryPoint](t, rec)
	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if points[0].MaxWeight != 195 {
		t.Errorf("maxWeight = %v, want 195", points[0].MaxWeight)
	}
	if points[0].TotalVolume != 185*10+195*8 {
		t.Errorf("totalVolume = %v, want %v", points[0].TotalVolume, 185*10+195*8)
	}

	// Stats see the same data.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/exercises/bench-press/stats", nil)
	stats := decode[workout.ExerciseStats](t, rec)
	if stats.Sessions != 1 || stats.Sets != 2 || stats.BestSetWeight != 195 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestStartWorkoutConflicts verifies 409 on double start and 404 on
// unknown exercise.
func TestStartWorkoutConflicts(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts", startWorkoutRequest{ExerciseIDs: []string{"squats"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts", startWorkoutRequest{ExerciseIDs: []string{"deadlift"}})
	if rec.Code != http.StatusConflict {
		t.Errorf("double start: status = %d, want 409", rec.Code)
	}

	// Discard, then an unknown exercise is a 404.
	if rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/active", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("discard: status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts", startWorkoutRequest{ExerciseIDs: []string{"nonexistent"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown exercise: status = %d, want 404", rec.Code)
	}
}

// TestMutationsWithoutActiveSession verifies 409s when no session exists.
func TestMutationsWithoutActiveSession(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts/active/sets",
		addSetRequest{ExerciseID: "bench-press", Weight: 185, Reps: 10})
	if rec.Code != http.StatusConflict {
		t.Errorf("add set: status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/workouts/active/save", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("save: status = %d, want 409", rec.Code)
	}

	// Discard without a session stays a no-op.
	rec = doJSON(t, s, http.MethodDelete, "/api/v1/workouts/active", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("discard: status = %d, want 204", rec.Code)
	}
}

// TestUpdateSetOutOfRange verifies a bad index maps to 404.
func TestUpdateSetOutOfRange(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/v1/workouts", startWorkoutRequest{ExerciseIDs: []string{"squats"}})

	weight := 100.0
	rec := doJSON(t, s, http.MethodPatch, "/api/v1/workouts/active/exercises/squats/sets/0",
		updateSetRequest{Weight: &weight})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestAddSetValidation verifies negative values are rejected before they
// reach the store.
func TestAddSetValidation(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/v1/workouts", startWorkoutRequest{ExerciseIDs: []string{"squats"}})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts/active/sets",
		addSetRequest{ExerciseID: "squats", Weight: -5, Reps: 10})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative weight: status = %d, want 400", rec.Code)
	}

	active, _ := s.store.ActiveSession()
	if len(active.Exercises[0].Sets) != 0 {
		t.Error("rejected set reached the store")
	}
}
